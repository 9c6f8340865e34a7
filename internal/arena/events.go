package arena

import "encoding/binary"

// Event is one ingested (uuid, timestamp, items) record plus the reverse
// link to the previous event the same UUID produced (§4.2, §9 "cyclic
// pointer graphs" replaced by arena + compact indices).
type Event struct {
	ItemZero     uint64 // index of the first item in the item arena
	NumItems     uint64
	Timestamp    uint64
	PrevEventIdx uint64 // 1-based; 0 means "no previous event"
}

const eventRecordSize = 32

// Events is an append-only, spill-capable store of Event records.
type Events struct {
	buf *spillBuffer
	dir string
}

// NewEvents creates an event arena that spills to dir once it exceeds
// threshold bytes in memory (0 selects DefaultSpillThreshold).
func NewEvents(dir string, threshold int) *Events {
	return &Events{buf: newSpillBuffer(eventRecordSize, threshold), dir: dir}
}

// Append records one event and returns its 1-based index (0 is reserved as
// the "no previous event" sentinel, matching prev_event_idx's contract).
func (e *Events) Append(ev Event) (uint64, error) {
	var rec [eventRecordSize]byte
	binary.LittleEndian.PutUint64(rec[0:8], ev.ItemZero)
	binary.LittleEndian.PutUint64(rec[8:16], ev.NumItems)
	binary.LittleEndian.PutUint64(rec[16:24], ev.Timestamp)
	binary.LittleEndian.PutUint64(rec[24:32], ev.PrevEventIdx)

	idx, err := e.buf.append(e.dir, rec[:])
	if err != nil {
		return 0, err
	}
	return idx + 1, nil
}

// Freeze ends the append phase and makes Get available.
func (e *Events) Freeze() error { return e.buf.freeze() }

// Get returns the event at 1-based index idx.
func (e *Events) Get(idx uint64) Event {
	rec := e.buf.record(idx - 1)
	return Event{
		ItemZero:     binary.LittleEndian.Uint64(rec[0:8]),
		NumItems:     binary.LittleEndian.Uint64(rec[8:16]),
		Timestamp:    binary.LittleEndian.Uint64(rec[16:24]),
		PrevEventIdx: binary.LittleEndian.Uint64(rec[24:32]),
	}
}

// Len returns the number of appended events.
func (e *Events) Len() uint64 { return e.buf.len() }

// Close releases resources (temp file, mapping).
func (e *Events) Close() error { return e.buf.close() }
