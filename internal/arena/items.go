package arena

import (
	"encoding/binary"

	"github.com/traildb/tdb-go/item"
)

const itemRecordSize = 8

// Items is a flat, append-only, spill-capable array of packed items. An
// Event's ItemZero/NumItems index into this array (§4.2).
type Items struct {
	buf *spillBuffer
	dir string
}

// NewItems creates an item arena that spills to dir once it exceeds
// threshold bytes in memory.
func NewItems(dir string, threshold int) *Items {
	return &Items{buf: newSpillBuffer(itemRecordSize, threshold), dir: dir}
}

// Append appends one packed item and returns its 0-based index.
func (it *Items) Append(v item.Item) (uint64, error) {
	var rec [itemRecordSize]byte
	binary.LittleEndian.PutUint64(rec[:], uint64(v))
	return it.buf.append(it.dir, rec[:])
}

// AppendAll appends a slice of items, returning the index of the first one.
func (it *Items) AppendAll(vs []item.Item) (uint64, error) {
	var zero uint64
	for i, v := range vs {
		idx, err := it.Append(v)
		if err != nil {
			return 0, err
		}
		if i == 0 {
			zero = idx
		}
	}
	return zero, nil
}

// Freeze ends the append phase and makes Get/Slice available.
func (it *Items) Freeze() error { return it.buf.freeze() }

// Get returns the item at 0-based index idx.
func (it *Items) Get(idx uint64) item.Item {
	rec := it.buf.record(idx)
	return item.Item(binary.LittleEndian.Uint64(rec))
}

// Slice returns the num items starting at zero, copied into a fresh slice.
func (it *Items) Slice(zero, num uint64) []item.Item {
	out := make([]item.Item, num)
	for i := range out {
		out[i] = it.Get(zero + uint64(i))
	}
	return out
}

// Len returns the number of appended items.
func (it *Items) Len() uint64 { return it.buf.len() }

// Close releases resources (temp file, mapping).
func (it *Items) Close() error { return it.buf.close() }
