package model

import "github.com/traildb/tdb-go/item"

// EdgeEncoder replays one trail's events in timestamp order, keeping the
// last value seen for each field, and reduces each event to only the items
// that changed since the previous event for the same trail (§4.3 "edge
// encoding"). It is a generalization of edge_encode_items in
// original_source/src/tdb_encode.c: the original walks a fixed-size C array
// indexed by field id, which forces every field to be pre-declared and
// costs space proportional to the widest field id in use; a Go map costs
// space proportional only to the fields actually present in the trail so
// far.
type EdgeEncoder struct {
	prev map[item.Field]item.Item
}

// NewEdgeEncoder creates an edge encoder with empty per-field state.
func NewEdgeEncoder() *EdgeEncoder {
	return &EdgeEncoder{prev: make(map[item.Field]item.Item)}
}

// Reset clears per-field state. Call it once per trail, before encoding its
// first event.
func (e *EdgeEncoder) Reset() {
	clear(e.prev)
}

// Encode returns the subset of items whose value differs from the last
// value recorded for that field in the current trail, recording the new
// values as a side effect. Items must not include the timestamp-delta
// pseudo-item; callers prepend that separately, since it is never elided
// (§4.3: "the timestamp item is always present").
func (e *EdgeEncoder) Encode(items []item.Item) []item.Item {
	out := make([]item.Item, 0, len(items))
	for _, it := range items {
		f := it.Field()
		if prev, ok := e.prev[f]; !ok || prev != it {
			e.prev[f] = it
			out = append(out, it)
		}
	}
	return out
}
