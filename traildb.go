// Package traildb provides convenient top-level entry points for building
// and reading TrailDB stores: an immutable, compressed, columnar store of
// per-actor event sequences ("trails").
//
// # Basic usage
//
// Building a store:
//
//	b, _ := traildb.NewBuilder([]string{"country", "browser"})
//	b.Add(uuid, timestamp, map[string][]byte{"country": []byte("fi")})
//	b.Finalize("/path/to/store")
//
// Reading one back:
//
//	r, _ := traildb.Open("/path/to/store")
//	defer r.Close()
//
//	cur, _ := traildb.NewCursor(r)
//	cur.GetTrail(0)
//	for {
//	    ev, ok := cur.Next()
//	    if !ok {
//	        break
//	    }
//	    // ev.Timestamp, ev.Items
//	}
//
// # Package structure
//
// This package is a thin convenience layer over cons (the write side) and
// reader (the read side). For advanced usage - package-form output,
// sampled gram models, filters, multi-trail merges - use those packages
// directly.
package traildb

import (
	"github.com/traildb/tdb-go/cons"
	"github.com/traildb/tdb-go/reader"
)

// NewBuilder creates a builder over the given non-time field names, in
// field-id order. See cons.NewBuilder for the full option set (output
// format, sample rate, spill thresholds).
func NewBuilder(fieldNames []string, opts ...cons.Option) (*cons.Builder, error) {
	return cons.NewBuilder(fieldNames, opts...)
}

// Open opens a TrailDB store, directory or package form, for reading. See
// reader.Open for the full option set (a reader-global filter).
func Open(root string, opts ...reader.Option) (*reader.Reader, error) {
	return reader.Open(root, opts...)
}

// NewCursor creates a cursor over r with no trail loaded yet; call
// GetTrail before Next. See reader.NewCursor for emission-mode and
// filter options.
func NewCursor(r *reader.Reader, opts ...reader.CursorOption) (*reader.Cursor, error) {
	return reader.NewCursor(r, opts...)
}

// NewMultiCursor merges several cursors into one non-decreasing-timestamp
// stream, in cursor registration order for tie-breaks (see §4.9 in
// reader.MultiCursor).
func NewMultiCursor(cursors ...*reader.Cursor) *reader.MultiCursor {
	return reader.NewMultiCursor(cursors...)
}

// Append decodes every trail of src into dest; see reader.Append.
func Append(dest *cons.Builder, src *reader.Reader) error {
	return reader.Append(dest, src)
}
