package model

import "github.com/traildb/tdb-go/item"

// Model is the finished output of gram modeling: a frequency table over
// unigrams and per-event, non-overlapping bigrams, consumed directly by
// package huffman to build a codebook.
type Model struct {
	Freqs map[Gram]uint64
}

// Builder runs the three-pass gram-modeling algorithm
// (original_source/src/tdb_encode_model.c's make_grams): collect unigram
// frequencies, derive candidate bigrams and their frequencies, then re-walk
// the same events a third time choosing an exact-cover gram set per event
// and tallying the chosen grams' final frequencies. Each pass is fed by the
// caller, which owns replaying the (sampled) edge-encoded event sequence —
// Builder has no opinion on where events live or how they are sampled.
type Builder struct {
	unigrams    *Unigrams
	candidates  map[Gram]bool
	bigramFreqs *BigramFreqs
}

// NewBuilder creates a gram-model builder ready for its first (unigram)
// pass.
func NewBuilder() *Builder {
	return &Builder{unigrams: NewUnigrams()}
}

// AddUnigramPass feeds one edge-encoded event during the first pass.
func (b *Builder) AddUnigramPass(items []item.Item) {
	b.unigrams.Add(items)
}

// FinishUnigramPass locks in the frequent-unigram candidate set (support<=0
// selects format.SupportThreshold) and readies the builder for the second
// pass.
func (b *Builder) FinishUnigramPass(support float64) {
	b.candidates = b.unigrams.Candidates(support)
	b.bigramFreqs = NewBigramFreqs(b.candidates)
}

// AddBigramPass feeds one edge-encoded event during the second pass,
// tallying candidate-bigram co-occurrences. Must run after
// FinishUnigramPass.
func (b *Builder) AddBigramPass(items []item.Item) {
	b.bigramFreqs.Add(items)
}

// ChoosePass re-walks events a third time via next (which must replay the
// identical sequence passed to AddBigramPass and return ok=false once
// exhausted), tallying the final chosen-gram frequencies, and returns the
// finished model.
func (b *Builder) ChoosePass(next func() (items []item.Item, ok bool)) *Model {
	freqs := b.bigramFreqs.Freqs()
	final := make(map[Gram]uint64)
	for {
		items, ok := next()
		if !ok {
			break
		}
		for _, g := range Choose(items, freqs) {
			final[g]++
		}
	}
	return &Model{Freqs: final}
}

// UnigramFreqs exposes the first-pass frequency table, e.g. for diagnostics
// or tests.
func (b *Builder) UnigramFreqs() map[Gram]uint64 { return b.unigrams.Freqs() }

// CandidateBigramFreqs exposes the second-pass candidate-bigram frequency
// table. The trail writer reuses this (not the final per-gram tally
// ChoosePass returns) to make the identical exact-cover decision for every
// trail at encode time, not just the sampled trails ChoosePass saw.
func (b *Builder) CandidateBigramFreqs() map[Gram]uint64 { return b.bigramFreqs.Freqs() }
