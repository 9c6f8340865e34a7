package cons

import (
	"sort"

	"github.com/traildb/tdb-go/errs"
	"github.com/traildb/tdb-go/format"
	"github.com/traildb/tdb-go/internal/arena"
	"github.com/traildb/tdb-go/internal/uuidmap"
	"github.com/traildb/tdb-go/item"
)

// groupedEvent is one trail's event, as produced by the grouper: a
// timestamp delta (from the previous event in the same trail, or from the
// store's min_timestamp for the trail's first event) plus the event's raw,
// not-yet-edge-encoded field values (§4.3).
type groupedEvent struct {
	delta uint64
	items []item.Item
}

// groupedTrail is one UUID's full, time-sorted event sequence. Trail ids
// are simply a groupedTrail's index in the slice the grouper returns,
// fixed by ascending-UUID order (§4.3).
type groupedTrail struct {
	uuid   uuidmap.UUID
	events []groupedEvent
}

// group walks each UUID's reverse-linked event chain, sorts it into time
// order, and delta-encodes its timestamps, returning every trail in
// ascending-UUID order plus the largest delta observed anywhere (needed
// for field_stats). This is the Go translation of the per-UUID grouping
// loop described in original_source's trail_encode.c/tdb_cons.c: the event
// arena links each UUID's events newest-first (prev_event_idx points
// backward), so a plain walk yields events in reverse insertion order —
// which is why the sort below must explicitly restore insertion order
// among equal timestamps instead of leaving it to chance.
func (b *Builder) group() ([]groupedTrail, uint64, error) {
	uuids := b.uuids.SortedUUIDs()
	trails := make([]groupedTrail, 0, len(uuids))
	var maxTimedelta uint64

	for _, uuid := range uuids {
		head := b.uuids.LatestEventIdx(uuid)

		var raw []arena.Event
		for idx := head; idx != 0; {
			ev := b.events.Get(idx)
			raw = append(raw, ev)
			idx = ev.PrevEventIdx
		}
		sortTrailEvents(raw)

		events := make([]groupedEvent, len(raw))
		prevTS := b.minTimestamp
		for i, ev := range raw {
			delta := ev.Timestamp - prevTS
			if delta >= format.TimedeltaMax {
				return nil, 0, errs.Wrap(errs.ErrTimestampTooLarge, "delta %d", delta)
			}
			if delta > maxTimedelta {
				maxTimedelta = delta
			}
			events[i] = groupedEvent{
				delta: delta,
				items: b.items.Slice(ev.ItemZero, ev.NumItems),
			}
			prevTS = ev.Timestamp
		}
		trails = append(trails, groupedTrail{uuid: uuid, events: events})
	}

	return trails, maxTimedelta, nil
}

// sortTrailEvents performs a stable ascending sort by timestamp and then
// reverses every run of equal timestamps, which composes to "stable
// ascending, ties broken by original (oldest-appended-first) order" given
// raw's newest-first input order (§4.3 step 2).
func sortTrailEvents(raw []arena.Event) {
	sort.SliceStable(raw, func(i, j int) bool {
		return raw[i].Timestamp < raw[j].Timestamp
	})

	n := len(raw)
	for i := 0; i < n; {
		j := i + 1
		for j < n && raw[j].Timestamp == raw[i].Timestamp {
			j++
		}
		reverseEvents(raw[i:j])
		i = j
	}
}

func reverseEvents(s []arena.Event) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
