package lexicon

import (
	"encoding/binary"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/traildb/tdb-go/errs"
	"github.com/traildb/tdb-go/item"
)

// Write serializes b to w in the on-disk lexicon layout (§3, §6):
//
//	[count u32][offset_0 u32 ...][offset_count u32 (sentinel)][bytes...]
//
// Offsets are relative to the start of the concatenated bytes region, and
// there are count+1 of them so a reader can compute length as
// offset[i+1]-offset[i] without special-casing the last value.
func (b *Builder) Write(w io.Writer) error {
	count := uint32(len(b.values))
	header := make([]byte, 4+4*(int(count)+1))
	binary.LittleEndian.PutUint32(header[0:4], count)

	offset := uint32(0)
	for i, v := range b.values {
		binary.LittleEndian.PutUint32(header[4+4*i:8+4*i], offset)
		offset += uint32(len(v))
	}
	binary.LittleEndian.PutUint32(header[4+4*int(count):8+4*int(count)], offset)

	if _, err := w.Write(header); err != nil {
		return errs.Wrap(errs.ErrWrite, "lexicon header: %v", err)
	}
	for _, v := range b.values {
		if _, err := w.Write(v); err != nil {
			return errs.Wrap(errs.ErrWrite, "lexicon body: %v", err)
		}
	}
	return nil
}

// Lexicon is a read-only, randomly-addressable view over a serialized
// lexicon's backing bytes (typically an mmap'd file).
type Lexicon struct {
	size uint32 // number of interned values
	toc  []byte // (size+1) little-endian u32 offsets
	data []byte // concatenated value bytes

	byHash map[uint64][]uint32 // hash -> candidate 1-based ids, built lazily by Find
}

// Open parses raw as a lexicon file's bytes. raw is retained, not copied.
func Open(raw []byte) (*Lexicon, error) {
	if len(raw) < 8 {
		return nil, errs.Wrap(errs.ErrCorruptedLexicon, "file of %d bytes", len(raw))
	}
	count := binary.LittleEndian.Uint32(raw[0:4])
	tocEnd := 4 + 4*(int(count)+1)
	if len(raw) < tocEnd {
		return nil, errs.Wrap(errs.ErrCorruptedLexicon, "truncated offset table")
	}
	return &Lexicon{
		size: count,
		toc:  raw[4:tocEnd],
		data: raw[tocEnd:],
	}, nil
}

// Size returns the number of distinct interned values (not counting NULL).
func (l *Lexicon) Size() uint32 {
	if l == nil {
		return 0
	}
	return l.size
}

func (l *Lexicon) offset(i uint32) uint32 {
	return binary.LittleEndian.Uint32(l.toc[4*i : 4*i+4])
}

// Get returns the bytes for a 1-based value id. An out-of-range id (other
// than NULL) returns nil; callers are expected to have validated ids
// against field_stats before calling.
func (l *Lexicon) Get(id item.Val) []byte {
	if l == nil || id == 0 || uint64(id) > uint64(l.size) {
		return nil
	}
	i := uint32(id - 1)
	start, end := l.offset(i), l.offset(i+1)
	return l.data[start:end]
}

// Find returns the 1-based id interned for value, or (0, false) if value
// was never interned. It is the read-side mirror of Builder.Intern's
// hash-bucket lookup, built lazily on first call since most readers never
// need reverse lookup (only filter construction by value bytes does).
func (l *Lexicon) Find(value []byte) (item.Val, bool) {
	if l == nil || len(value) == 0 {
		return 0, false
	}
	if l.byHash == nil {
		l.byHash = make(map[uint64][]uint32, l.size)
		for i := uint32(0); i < l.size; i++ {
			id := i + 1
			h := xxhash.Sum64(l.Get(item.Val(id)))
			l.byHash[h] = append(l.byHash[h], id)
		}
	}
	h := xxhash.Sum64(value)
	for _, id := range l.byHash[h] {
		if string(l.Get(item.Val(id))) == string(value) {
			return item.Val(id), true
		}
	}
	return 0, false
}
