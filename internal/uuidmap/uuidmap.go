// Package uuidmap implements the UUID->event association the builder needs
// while ingesting events, standing in for the bundled 128-bit-keyed
// associative map that spec.md §1/§4.11 treats as an abstract primitive
// ("the operations §4 requires", not a from-scratch balanced tree). It is
// backed by a Go map plus a sort at finalize time, since TrailDB only needs
// ascending iteration once, when trail ids are assigned (§4.3).
package uuidmap

import (
	"bytes"
	"slices"
)

// UUID is an opaque 128-bit actor id.
type UUID [16]byte

// Less reports whether a sorts before b in ascending byte-lexicographic
// order (§3 invariant 3).
func Less(a, b UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// Map associates each UUID observed so far with the arena index of its most
// recently appended event, so the builder can thread a reverse linked list
// per UUID without a per-UUID growing vector (§4.2 "UUID index").
type Map struct {
	latest map[UUID]uint64
}

// New creates an empty Map.
func New() *Map {
	return &Map{latest: make(map[UUID]uint64)}
}

// Upsert records idx as the latest event index for uuid and returns the
// previous latest index (and whether one existed), which the caller links
// as prev_event_idx.
func (m *Map) Upsert(uuid UUID, idx uint64) (prev uint64, hadPrev bool) {
	prev, hadPrev = m.latest[uuid]
	m.latest[uuid] = idx
	return prev, hadPrev
}

// Peek returns uuid's current latest event index without modifying it, so
// a caller can compute prev_event_idx before the new event's own arena
// index is known (arenas are append-only, so the link must be resolved
// before the record is written, not after).
func (m *Map) Peek(uuid UUID) (idx uint64, ok bool) {
	idx, ok = m.latest[uuid]
	return idx, ok
}

// Len returns the number of distinct UUIDs observed.
func (m *Map) Len() int {
	return len(m.latest)
}

// SortedUUIDs returns every observed UUID in ascending order, fixing
// trail-id assignment per §4.3. Use LatestEventIdx for each one's latest
// event index.
func (m *Map) SortedUUIDs() []UUID {
	out := make([]UUID, 0, len(m.latest))
	for u := range m.latest {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	return out
}

// LatestEventIdx returns the latest recorded event arena index for uuid.
func (m *Map) LatestEventIdx(uuid UUID) uint64 {
	return m.latest[uuid]
}
