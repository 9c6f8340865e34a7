// Package lexicon implements per-field value interning (§4.1) and the
// on-disk lexicon layout (§3 "Lexicon", §6 "Lexicon file format").
//
// Builder is the ingest-side interning map: grounded on the teacher's
// hash-assisted string lookups (the metric-name interning path hashed
// candidate names with xxhash to bucket them before an exact compare;
// Builder applies the same trick per distinct value so repeated `add`
// calls for a common value stay O(1) amortized instead of re-hashing a
// growing byte slice on every insert).
package lexicon

import (
	"github.com/cespare/xxhash/v2"
	"github.com/traildb/tdb-go/errs"
	"github.com/traildb/tdb-go/format"
	"github.com/traildb/tdb-go/item"
)

// Builder interns byte strings for one field, assigning dense 1-based ids.
// Identical bytes always return the same id; id 0 is reserved for NULL and
// is never returned by Intern.
type Builder struct {
	buckets map[uint64][]uint32 // hash -> candidate ids (1-based)
	values  [][]byte            // id-1 -> bytes, in insertion (= id) order
}

// NewBuilder creates an empty per-field lexicon builder.
func NewBuilder() *Builder {
	return &Builder{buckets: make(map[uint64][]uint32)}
}

// Intern returns the dense 1-based id for bytes, allocating a new one on
// first sight. A zero-length input always yields id 0 (NULL) without being
// stored. Values longer than format.ValueMax, or lexicons that would grow
// past format.ValuesMax distinct entries, are rejected.
func (b *Builder) Intern(value []byte) (item.Val, error) {
	if len(value) == 0 {
		return 0, nil
	}
	if uint64(len(value)) > format.ValueMax {
		return 0, errs.Wrap(errs.ErrValueTooLarge, "value of %d bytes", len(value))
	}

	h := xxhash.Sum64(value)
	for _, id := range b.buckets[h] {
		if string(b.values[id-1]) == string(value) {
			return item.Val(id), nil
		}
	}

	if uint64(len(b.values)) >= format.ValuesMax {
		return 0, errs.Wrap(errs.ErrTooManyValues, "field already holds %d values", len(b.values))
	}

	dup := make([]byte, len(value))
	copy(dup, value)
	b.values = append(b.values, dup)
	id := uint32(len(b.values))
	b.buckets[h] = append(b.buckets[h], id)

	return item.Val(id), nil
}

// Len returns the number of distinct interned values (the field's
// cardinality).
func (b *Builder) Len() int {
	return len(b.values)
}

// Get returns the interned bytes for a 1-based id, or nil if out of range.
func (b *Builder) Get(id item.Val) []byte {
	if id == 0 || uint64(id) > uint64(len(b.values)) {
		return nil
	}
	return b.values[id-1]
}

// Values iterates all interned values in id order (1, 2, ...), as required
// by the on-disk lexicon layout.
func (b *Builder) Values(yield func(id item.Val, value []byte) bool) {
	for i, v := range b.values {
		if !yield(item.Val(i+1), v) { //nolint:gosec // i+1 always fits uint32 range checked in Intern
			return
		}
	}
}
