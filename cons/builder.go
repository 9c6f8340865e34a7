package cons

import (
	"sort"

	"github.com/traildb/tdb-go/errs"
	"github.com/traildb/tdb-go/format"
	"github.com/traildb/tdb-go/internal/arena"
	"github.com/traildb/tdb-go/internal/options"
	"github.com/traildb/tdb-go/internal/uuidmap"
	"github.com/traildb/tdb-go/item"
	"github.com/traildb/tdb-go/lexicon"
)

// Builder ingests events and, on Finalize, writes a complete TrailDB file
// set. A Builder is single-owner: call Finalize exactly once.
type Builder struct {
	opts Options

	fieldNames []string // index i is field id i+1
	fieldIdx   map[string]int

	lexicons []*lexicon.Builder // parallel to fieldNames

	events *arena.Events
	items  *arena.Items
	uuids  *uuidmap.Map

	minTimestamp uint64
	maxTimestamp uint64
	haveAnyEvent bool

	finalized bool
}

// NewBuilder creates a builder over the given non-time field names, in
// field-id order (field 0 is reserved for the timestamp and must not be
// named here, §3).
func NewBuilder(fieldNames []string, opts ...Option) (*Builder, error) {
	o := defaultOptions()
	if err := options.Apply(&o, opts...); err != nil {
		return nil, err
	}

	if uint64(len(fieldNames)) > format.FieldsMax {
		return nil, errs.Wrap(errs.ErrTooManyFields, "%d fields requested", len(fieldNames))
	}

	idx := make(map[string]int, len(fieldNames))
	lexicons := make([]*lexicon.Builder, len(fieldNames))
	for i, name := range fieldNames {
		if name == "time" {
			return nil, errs.Wrap(errs.ErrReservedFieldName, "field %d", i)
		}
		if len(name) == 0 || uint64(len(name)) > format.FieldNameMax {
			return nil, errs.Wrap(errs.ErrFieldNameTooLong, "field %q", name)
		}
		for j := 0; j < len(name); j++ {
			if !format.IsFieldNameChar(name[j]) {
				return nil, errs.Wrap(errs.ErrInvalidFieldName, "field %q", name)
			}
		}
		if _, dup := idx[name]; dup {
			return nil, errs.Wrap(errs.ErrDuplicateField, "field %q", name)
		}
		idx[name] = i
		lexicons[i] = lexicon.NewBuilder()
	}

	return &Builder{
		opts:       o,
		fieldNames: fieldNames,
		fieldIdx:   idx,
		lexicons:   lexicons,
		events:     arena.NewEvents(o.tempDir, o.spillThreshold),
		items:      arena.NewItems(o.tempDir, o.spillThreshold),
		uuids:      uuidmap.New(),
	}, nil
}

// FieldNames returns the builder's non-time field names in field-id order.
func (b *Builder) FieldNames() []string {
	return b.fieldNames
}

// Add ingests one event: uuid identifies the trail, timestamp is an
// absolute Unix time, and values maps field name to raw bytes (a field
// absent from values contributes no item to this event; §4.1/§4.2).
func (b *Builder) Add(uuid uuidmap.UUID, timestamp uint64, values map[string][]byte) error {
	if b.finalized {
		return errs.ErrBuilderFinalized
	}

	items := make([]item.Item, 0, len(values))
	for name, raw := range values {
		i, ok := b.fieldIdx[name]
		if !ok {
			return errs.Wrap(errs.ErrUnknownField, "field %q", name)
		}
		valID, err := b.lexicons[i].Intern(raw)
		if err != nil {
			return err
		}
		items = append(items, item.Make(item.Field(i+1), valID))
	}
	// values is a map, so its iteration order is randomized per run; sort by
	// field id so the same logical event always produces the same gram
	// choices in model.Choose, regardless of range order.
	sort.Slice(items, func(a, b int) bool { return items[a].Field() < items[b].Field() })

	zero := b.items.Len()
	if len(items) > 0 {
		var err error
		zero, err = b.items.AppendAll(items)
		if err != nil {
			return err
		}
	}

	// Arenas are append-only, so the reverse-link to this UUID's previous
	// event must be resolved before the record is written, not after. The
	// uuid map stores the same 1-based index Events.Append returns, so 0
	// doubles as "no previous event" for both.
	prevEventIdx, _ := b.uuids.Peek(uuid)

	idx, err := b.events.Append(arena.Event{
		ItemZero:     zero,
		NumItems:     uint64(len(items)),
		Timestamp:    timestamp,
		PrevEventIdx: prevEventIdx,
	})
	if err != nil {
		return err
	}
	b.uuids.Upsert(uuid, idx)

	if !b.haveAnyEvent || timestamp < b.minTimestamp {
		b.minTimestamp = timestamp
	}
	if !b.haveAnyEvent || timestamp > b.maxTimestamp {
		b.maxTimestamp = timestamp
	}
	b.haveAnyEvent = true

	return nil
}
