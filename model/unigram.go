package model

import (
	"github.com/traildb/tdb-go/format"
	"github.com/traildb/tdb-go/item"
)

// Unigrams accumulates per-item occurrence counts across the edge-encoded
// events of a sampled set of trails: the first of three passes needed to
// build a gram model (collect_unigrams/all_freqs in
// original_source/src/tdb_encode_model.c).
type Unigrams struct {
	freqs map[Gram]uint64
	total uint64
}

// NewUnigrams creates an empty unigram frequency accumulator.
func NewUnigrams() *Unigrams {
	return &Unigrams{freqs: make(map[Gram]uint64)}
}

// Add records one edge-encoded event's items, including its timestamp-delta
// item.
func (u *Unigrams) Add(items []item.Item) {
	for _, it := range items {
		u.freqs[Unigram(it)]++
		u.total++
	}
}

// Freqs returns the accumulated unigram frequency table.
func (u *Unigrams) Freqs() map[Gram]uint64 { return u.freqs }

// Candidates returns the subset of unigrams whose relative frequency
// exceeds support (0 selects format.SupportThreshold), the pool of items
// allowed to form bigrams (find_candidates in tdb_encode_model.c).
func (u *Unigrams) Candidates(support float64) map[Gram]bool {
	if support <= 0 {
		support = format.SupportThreshold
	}
	threshold := float64(u.total) * support

	out := make(map[Gram]bool, len(u.freqs))
	for g, n := range u.freqs {
		if float64(n) > threshold {
			out[g] = true
		}
	}
	return out
}
