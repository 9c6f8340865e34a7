package model

import "github.com/traildb/tdb-go/item"

// BigramFreqs accumulates, over a sampled set of edge-encoded events, the
// frequency of every pair of items that co-occur within one event and are
// both frequent-unigram candidates. This is the second of three passes
// (all_bigrams in original_source/src/tdb_encode_model.c); the event need
// not keep the pair adjacent — the original and this translation both
// consider every ordered pair within the event, not just neighbors.
type BigramFreqs struct {
	candidates map[Gram]bool
	freqs      map[Gram]uint64
}

// NewBigramFreqs creates a bigram frequency accumulator restricted to the
// given candidate unigrams.
func NewBigramFreqs(candidates map[Gram]bool) *BigramFreqs {
	return &BigramFreqs{candidates: candidates, freqs: make(map[Gram]uint64)}
}

// Add scans one edge-encoded event's items (including its timestamp-delta
// item) for every pair whose both members are frequent candidates,
// incrementing that pair's frequency.
func (bf *BigramFreqs) Add(items []item.Item) {
	for i := 0; i < len(items); i++ {
		if !bf.candidates[Unigram(items[i])] {
			continue
		}
		for j := i + 1; j < len(items); j++ {
			if !bf.candidates[Unigram(items[j])] {
				continue
			}
			bf.freqs[Bigram(items[i], items[j])]++
		}
	}
}

// Freqs returns the accumulated candidate-bigram frequency table.
func (bf *BigramFreqs) Freqs() map[Gram]uint64 { return bf.freqs }
