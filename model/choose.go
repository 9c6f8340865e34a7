package model

import "github.com/traildb/tdb-go/item"

// Choose picks a non-overlapping (exact-cover) set of grams for one
// edge-encoded event: greedily, in descending bigram-frequency order, it
// picks bigrams whose both member fields are not yet covered, then emits a
// plain unigram for every item left uncovered (choose_grams in
// original_source/src/tdb_encode_model.c). items[0] must be the
// timestamp-delta item; it is always kept first in the result, even when a
// bigram absorbs it, matching the original's "timestamp must be the first
// item in the list" invariant.
func Choose(items []item.Item, bigramFreqs map[Gram]uint64) []Gram {
	type candidate struct {
		gram  Gram
		score uint64
	}

	var candidates []candidate
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			g := Bigram(items[i], items[j])
			if score, ok := bigramFreqs[g]; ok {
				candidates = append(candidates, candidate{g, score})
			}
		}
	}

	covered := make(map[item.Field]bool, len(items))
	grams := make([]Gram, 1, len(items))
	grams[0] = Unigram(items[0]) // placeholder; may be replaced by a bigram below

	for {
		best := -1
		var bestScore uint64
		for i, c := range candidates {
			if covered[c.gram.First.Field()] || covered[c.gram.Second.Field()] {
				continue
			}
			if c.score > bestScore {
				bestScore = c.score
				best = i
			}
		}
		if best < 0 {
			break
		}

		chosen := candidates[best].gram
		covered[chosen.First.Field()] = true
		covered[chosen.Second.Field()] = true
		if chosen.First.Field() == 0 {
			grams[0] = chosen
		} else {
			grams = append(grams, chosen)
		}
	}

	for _, it := range items[1:] {
		if !covered[it.Field()] {
			grams = append(grams, Unigram(it))
		}
	}
	return grams
}
