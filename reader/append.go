package reader

import (
	"github.com/traildb/tdb-go/cons"
	"github.com/traildb/tdb-go/errs"
)

// Append decodes every trail of src and re-adds each of its events to dest
// (§4.10 "Append/merge"). Field names and count must match dest exactly
// (else ErrFieldsMismatch); order matters, since field ids are positional.
//
// Unlike the prose description of a per-field value-id remap table, this
// reads each event's items back to their interned bytes via src.GetValue and
// feeds them through dest.Add, which interns fresh into dest's own lexicons —
// the same remap, built the way a Builder already builds it for any other
// caller, rather than a second bespoke id-translation path.
//
// If src has a filter installed for a trail (cursor-set via WithFilter is
// not used here, only per-trail/global precedence through the Reader),
// only matching events are appended; a trail with no matching events
// contributes nothing.
func Append(dest *cons.Builder, src *Reader) error {
	if !equalFieldNames(dest.FieldNames(), src.FieldNames()) {
		return errs.ErrFieldsMismatch
	}

	cur, err := NewCursor(src)
	if err != nil {
		return err
	}

	for trailID := uint64(0); trailID < src.NumTrails(); trailID++ {
		if err := cur.GetTrail(trailID); err != nil {
			return err
		}
		uuid := src.UUID(trailID)

		for {
			ev, ok := cur.Next()
			if !ok {
				break
			}

			values := make(map[string][]byte, len(ev.Items))
			for field, it := range ev.Items {
				name := src.fieldNames[field-1]
				if it.Val() == 0 {
					// Explicit NULL: an absent key would instead carry the
					// field's previous value forward in dest.
					values[name] = nil
					continue
				}
				if raw := src.GetValue(name, uint64(it.Val())); raw != nil {
					values[name] = raw
				}
			}

			if err := dest.Add(uuid, ev.Timestamp, values); err != nil {
				return err
			}
		}
	}

	return nil
}

func equalFieldNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
