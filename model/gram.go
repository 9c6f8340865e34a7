// Package model implements the two-pass gram-frequency modeling that
// chooses, for each edge-encoded event, a non-overlapping set of unigrams
// and bigrams to hand to the huffman package for codebook construction
// (§4.5 "Gram model"). It is a direct translation of the greedy exact-cover
// algorithm in original_source/src/tdb_encode_model.c (collect_unigrams,
// find_candidates, all_bigrams, choose_grams, make_grams).
package model

import "github.com/traildb/tdb-go/item"

// Gram is a unigram or bigram Huffman-coding candidate: one or two items
// considered as a single coded symbol. Field 0 (the timestamp-delta
// pseudo-item produced by item.Make(0, delta)) participates like any other
// field, so the timestamp is never special-cased here.
//
// A Go map with a Gram struct key (comparable by value) replaces the
// original's Judy-array integer key, which packed two 32-bit "encoded"
// array slots into one 64-bit word
// (original_source/src/tdb_encode_model.c: "bigram = unigram1 |
// (encoded[j] << 32)"). That packing silently truncates a timestamp delta
// taller than 32 bits; a struct key has no such width ceiling, so it needs
// no corresponding caveat.
type Gram struct {
	First  item.Item
	Second item.Item
	Paired bool
}

// Unigram builds a single-item gram.
func Unigram(v item.Item) Gram { return Gram{First: v} }

// Bigram builds a two-item gram. a must be the earlier of the two items in
// event order; the timestamp-delta item, when paired, is always a.
func Bigram(a, b item.Item) Gram { return Gram{First: a, Second: b, Paired: true} }

// IsBigram reports whether g pairs two items.
func (g Gram) IsBigram() bool { return g.Paired }

// Items returns g's member items: one for a unigram, two for a bigram.
func (g Gram) Items() []item.Item {
	if g.Paired {
		return []item.Item{g.First, g.Second}
	}
	return []item.Item{g.First}
}
