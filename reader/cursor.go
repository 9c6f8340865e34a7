package reader

import (
	"github.com/traildb/tdb-go/errs"
	"github.com/traildb/tdb-go/huffman"
	"github.com/traildb/tdb-go/internal/bits"
	"github.com/traildb/tdb-go/internal/options"
	"github.com/traildb/tdb-go/item"
	"github.com/traildb/tdb-go/model"
)

// Event is one fully-assembled trail event: its reconstructed absolute
// timestamp and the item present for each field that §4.8 says belongs in
// this emission (the full current tuple in default mode, only the changed
// items in only-diff mode).
type Event struct {
	Timestamp uint64
	Items     map[item.Field]item.Item
}

// emission selects what a Cursor puts in each Event (§4.8 step 4, §9 open
// question on edge-encoded emission).
type emission int

const (
	// emitFull emits every known field's current value on every event.
	emitFull emission = iota
	// emitOnlyDiff emits only the items that changed at this event.
	emitOnlyDiff
	// emitEdgeEncoded emits the first filter-matching event of a trail in
	// full and every later matching event as only-diff, resolving §9's
	// "edge-encoded callers that accept partial tuples" note: unlike
	// emitOnlyDiff, this mode may be combined with a filter, since the
	// first-match-in-full rule exists precisely to keep a filtered,
	// diff-style stream unambiguous to a caller that joined mid-trail.
	emitEdgeEncoded
)

// Cursor decodes one trail's event stream, reconstructing full item tuples
// from TrailDB's edge-encoded gram stream (§4.8). A Cursor is single-owner
// and not safe for concurrent use; a Reader may be shared across cursors
// that each hold their own.
type Cursor struct {
	r *Reader

	trailID uint64
	offs    uint64 // current bit offset into r.data
	limit   uint64 // bit offset where this trail's content ends
	tstamp  uint64

	previousItems []item.Item // field id -> current item, index 0 unused
	pendingGram   model.Gram
	hasPending    bool
	done          bool

	mode         emission
	filter       *Filter
	emittedFull  bool
}

// NewCursor creates a cursor with no trail loaded yet; call GetTrail before
// Next. A filter installed with WithFilter overrides any per-trail or
// reader-global filter for every trail this cursor visits (§4.8 "Filter
// precedence").
func NewCursor(r *Reader, opts ...CursorOption) (*Cursor, error) {
	c := &Cursor{r: r, mode: emitFull}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}
	if c.mode == emitOnlyDiff && c.filter != nil {
		return nil, errs.ErrOnlyDiffWithFilter
	}
	return c, nil
}

// CursorOption configures a Cursor at construction time.
type CursorOption = options.Option[*Cursor]

// WithOnlyDiff selects only-diff emission: each event carries only the
// items that changed since the trail's previous event. Rejected at
// NewCursor time if combined with WithFilter (§4.8, §7 "only-diff
// conflicts with filter").
func WithOnlyDiff() CursorOption {
	return options.NoError(func(c *Cursor) { c.mode = emitOnlyDiff })
}

// WithEdgeEncodedEmission selects the edge-encoded emission mode: the first
// filter-matching event of each trail is emitted in full, subsequent
// matches as only-diff. May be combined with WithFilter, unlike
// WithOnlyDiff.
func WithEdgeEncodedEmission() CursorOption {
	return options.NoError(func(c *Cursor) { c.mode = emitEdgeEncoded })
}

// WithFilter installs a cursor-level filter, the highest-precedence level
// in §4.8's filter chain.
func WithFilter(f *Filter) CursorOption {
	return options.NoError(func(c *Cursor) { c.filter = f })
}

func (c *Cursor) effectiveFilter() *Filter {
	if c.filter != nil {
		return c.filter
	}
	return c.r.filterFor(c.trailID)
}

// GetTrail seeks the cursor to trailID's event stream, resetting all
// per-trail decode state (§4.8 "get_trail(id)").
func (c *Cursor) GetTrail(trailID uint64) error {
	if trailID >= c.r.numTrails {
		return errs.Wrap(errs.ErrInvalidTrailID, "%d", trailID)
	}

	start, end := c.r.toc[trailID], c.r.toc[trailID+1]
	bitOffs := start * 8

	residual := uint64(0)
	if end > start {
		residual = bits.Read(c.r.data, bitOffs, 3)
	}

	c.trailID = trailID
	c.offs = bitOffs + 3
	c.limit = end*8 - residual
	c.tstamp = c.r.minTimestamp
	c.hasPending = false
	c.done = c.offs >= c.limit
	c.emittedFull = false

	numFields := len(c.r.fieldNames) + 1
	if cap(c.previousItems) < numFields {
		c.previousItems = make([]item.Item, numFields)
	} else {
		c.previousItems = c.previousItems[:numFields]
	}
	for f := 1; f < numFields; f++ {
		c.previousItems[f] = item.Zero(item.Field(f))
	}

	return nil
}

// Next decodes and returns the next event in the current trail, applying
// whatever filter is in effect (§4.8 step 5). It returns (Event{}, false)
// once the trail is exhausted.
func (c *Cursor) Next() (Event, bool) {
	filter := c.effectiveFilter()
	for {
		ts, changed, ok := c.decodeNextEvent()
		if !ok {
			return Event{}, false
		}

		for _, it := range changed {
			c.previousItems[it.Field()] = it
		}

		fullTuple := c.fullTuple()
		if !filter.Matches(ts, fullTuple) {
			continue
		}

		switch c.mode {
		case emitOnlyDiff:
			return Event{Timestamp: ts, Items: diffTuple(changed)}, true
		case emitEdgeEncoded:
			if !c.emittedFull {
				c.emittedFull = true
				return Event{Timestamp: ts, Items: fullTuple}, true
			}
			return Event{Timestamp: ts, Items: diffTuple(changed)}, true
		default:
			return Event{Timestamp: ts, Items: fullTuple}, true
		}
	}
}

// NextBatch decodes up to maxN further events, or fewer if the trail is
// exhausted first (§4.9's next_batch is a MultiCursor-level operation; this
// is the single-cursor building block it's built on).
func (c *Cursor) NextBatch(maxN int) []Event {
	out := make([]Event, 0, maxN)
	for len(out) < maxN {
		ev, ok := c.Next()
		if !ok {
			break
		}
		out = append(out, ev)
	}
	return out
}

func (c *Cursor) fullTuple() map[item.Field]item.Item {
	out := make(map[item.Field]item.Item, len(c.previousItems)-1)
	for f := 1; f < len(c.previousItems); f++ {
		out[item.Field(f)] = c.previousItems[f]
	}
	return out
}

func diffTuple(changed []item.Item) map[item.Field]item.Item {
	out := make(map[item.Field]item.Item, len(changed))
	for _, it := range changed {
		out[it.Field()] = it
	}
	return out
}

// decodeNextEvent decodes one full event's worth of grams: the leading
// timestamp-delta gram (and, if paired, the non-time item riding with it),
// followed by every subsequent gram up to (but not including) the next
// timestamp-delta gram, which is buffered for the following call (§4.8
// "Batch decode loop").
func (c *Cursor) decodeNextEvent() (ts uint64, changed []item.Item, ok bool) {
	if c.done {
		return 0, nil, false
	}

	var g model.Gram
	if c.hasPending {
		g = c.pendingGram
		c.hasPending = false
	} else {
		if c.offs >= c.limit {
			c.done = true
			return 0, nil, false
		}
		g = huffman.DecodeGram(c.r.codebook, c.r.fieldStats, c.r.data, &c.offs)
	}

	c.tstamp += uint64(g.First.Val())
	if g.IsBigram() {
		changed = append(changed, g.Second)
	}

	for c.offs < c.limit {
		next := huffman.DecodeGram(c.r.codebook, c.r.fieldStats, c.r.data, &c.offs)
		if next.First.Field() == 0 {
			c.pendingGram = next
			c.hasPending = true
			break
		}
		changed = append(changed, next.First)
		if next.IsBigram() {
			changed = append(changed, next.Second)
		}
	}

	if c.offs >= c.limit && !c.hasPending {
		c.done = true
	}

	return c.tstamp, changed, true
}
