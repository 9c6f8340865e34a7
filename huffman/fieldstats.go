package huffman

import (
	"github.com/traildb/tdb-go/internal/bits"
)

// FieldStats holds the per-field bit widths a literal (non-Huffman-coded)
// gram member is written with: how many bits identify the field, and how
// many bits hold that field's value (huff_field_stats in
// original_source/src/tdb_huffman.c). Index 0 is the timestamp-delta
// pseudo-field.
type FieldStats struct {
	FieldIDBits uint32
	FieldBits   []uint32 // FieldBits[0] is the timestamp delta's width
}

// ComputeFieldStats derives field widths from the number of real fields,
// each field's lexicon cardinality (cardinalities[i] = field i+1's cardinality),
// and the largest timestamp delta observed anywhere in the store.
func ComputeFieldStats(numFields int, cardinalities []uint64, maxTimestampDelta uint64) *FieldStats {
	fs := &FieldStats{
		FieldIDBits: bits.Needed(uint64(numFields)),
		FieldBits:   make([]uint32, numFields),
	}
	fs.FieldBits[0] = bits.Needed(maxTimestampDelta)
	for i, card := range cardinalities {
		fs.FieldBits[i+1] = bits.Needed(card)
	}
	return fs
}

// LiteralBits returns the total bit width, including the leading flag bit,
// a literal encoding of an item in this field costs.
func (fs *FieldStats) LiteralBits(field uint32) uint32 {
	return 1 + fs.FieldIDBits + fs.FieldBits[field]
}
