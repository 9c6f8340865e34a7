// Package reader implements the read side of a finalized TrailDB store:
// opening a directory or package-form store, decoding trails through a
// Cursor, evaluating Filters, merging multiple cursors in timestamp order,
// and appending one store's trails into a live Builder (§4.7-§4.10).
package reader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/traildb/tdb-go/errs"
	"github.com/traildb/tdb-go/format"
	"github.com/traildb/tdb-go/huffman"
	"github.com/traildb/tdb-go/internal/mmapfile"
	"github.com/traildb/tdb-go/internal/options"
	"github.com/traildb/tdb-go/internal/uuidmap"
	"github.com/traildb/tdb-go/item"
	"github.com/traildb/tdb-go/lexicon"
)

// Reader is a read-only, memory-mapped view over one finalized TrailDB
// store (§4.7). The zero value is not usable; create one with Open.
type Reader struct {
	opts readerOptions

	version uint64

	numTrails    uint64
	numEvents    uint64
	minTimestamp uint64
	maxTimestamp uint64
	maxTimedelta uint64

	fieldNames []string       // field id i+1 -> name
	fieldIdx   map[string]int // name -> field id - 1

	lexicons   []*lexicon.Lexicon // parallel to fieldNames
	fieldStats *huffman.FieldStats
	codebook   *huffman.Codebook

	uuids []uuidmap.UUID // trail id -> uuid, ascending
	toc   []uint64       // num_trails+1 byte offsets into data
	data  []byte         // trails.data contents

	globalFilter *Filter
	trailFilters map[uint64]*Filter

	closers []func() error
}

// SetTrailFilter installs a per-trail filter override, ranked above the
// reader-global filter but below whatever a Cursor sets directly on itself
// (§4.8 "Filter precedence: cursor-set > per-trail > reader-global > none").
func (r *Reader) SetTrailFilter(trailID uint64, f *Filter) {
	if r.trailFilters == nil {
		r.trailFilters = make(map[uint64]*Filter)
	}
	r.trailFilters[trailID] = f
}

// filterFor resolves the effective filter for trailID, absent a
// cursor-level override.
func (r *Reader) filterFor(trailID uint64) *Filter {
	if f, ok := r.trailFilters[trailID]; ok {
		return f
	}
	return r.globalFilter
}

// Open opens root, which may be either a TrailDB directory or a single
// package-form archive file (§4.7 "open(root) detects package vs
// directory"); the distinguishing test is whether root is a regular file.
func Open(root string, opts ...Option) (*Reader, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errs.Wrap(errs.ErrOpen, "%s: %v", root, err)
	}
	if info.IsDir() {
		return openDir(root, opts)
	}
	return openPackage(root, opts)
}

func newReader(opts []Option) (*Reader, error) {
	o := defaultOptions()
	if err := options.Apply(&o, opts...); err != nil {
		return nil, err
	}
	return &Reader{opts: o, globalFilter: o.globalFilter}, nil
}

// openDir loads every component file of a directory-form store via
// internal/mmapfile, one mapping per file.
func openDir(root string, opts []Option) (r *Reader, err error) {
	r, err = newReader(opts)
	if err != nil {
		return nil, err
	}

	required := []string{
		format.FileInfo, format.FileFields, format.FileUUIDs,
		format.FileTOC, format.FileData, format.FileCodebook,
	}
	components := make(map[string][]byte, len(required)+4)

	// Error returns set the named result r to nil, so close a saved copy.
	opened := r
	defer func() {
		if err != nil {
			opened.Close()
		}
	}()

	if data, ok, cerr := r.mmapOptional(filepath.Join(root, format.FileVersion)); cerr != nil {
		return nil, cerr
	} else if ok {
		components[format.FileVersion] = data
	}

	for _, name := range required {
		path := filepath.Join(root, name)
		f, merr := mmapfile.Open(path)
		if merr != nil {
			return nil, errs.Wrap(errs.ErrMissingFile, "%s: %v", path, merr)
		}
		r.closers = append(r.closers, f.Close)
		components[name] = f.Data
	}

	fieldNames, ferr := parseFields(components[format.FileFields])
	if ferr != nil {
		return nil, ferr
	}
	for _, name := range fieldNames {
		path := filepath.Join(root, format.LexiconPrefix+name)
		f, merr := mmapfile.Open(path)
		if merr != nil {
			return nil, errs.Wrap(errs.ErrMissingFile, "%s: %v", path, merr)
		}
		r.closers = append(r.closers, f.Close)
		components[format.LexiconPrefix+name] = f.Data
	}

	if err := r.load(components, fieldNames); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) mmapOptional(path string) (data []byte, ok bool, err error) {
	f, err := mmapfile.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errs.Wrap(errs.ErrOpen, "%s: %v", path, err)
	}
	r.closers = append(r.closers, f.Close)
	return f.Data, true, nil
}

// load parses every component's raw bytes, shared between the directory and
// package open paths.
func (r *Reader) load(components map[string][]byte, fieldNames []string) error {
	if raw, ok := components[format.FileVersion]; ok {
		v, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 10, 64)
		if err != nil {
			return errs.Wrap(errs.ErrInvalidInfo, "version: %v", err)
		}
		r.version = v
	} else {
		r.version = format.VersionV0
	}

	info, ok := components[format.FileInfo]
	if !ok {
		return errs.Wrap(errs.ErrMissingFile, "%s", format.FileInfo)
	}
	if err := r.parseInfo(info); err != nil {
		return err
	}

	r.fieldNames = fieldNames
	r.fieldIdx = make(map[string]int, len(fieldNames))
	r.lexicons = make([]*lexicon.Lexicon, len(fieldNames))
	cardinalities := make([]uint64, len(fieldNames))
	for i, name := range fieldNames {
		r.fieldIdx[name] = i
		raw, ok := components[format.LexiconPrefix+name]
		if !ok {
			return errs.Wrap(errs.ErrMissingFile, "lexicon.%s", name)
		}
		lx, err := lexicon.Open(raw)
		if err != nil {
			return err
		}
		r.lexicons[i] = lx
		cardinalities[i] = uint64(lx.Size())
	}
	r.fieldStats = huffman.ComputeFieldStats(len(fieldNames)+1, cardinalities, r.maxTimedelta)

	uuidsRaw, ok := components[format.FileUUIDs]
	if !ok {
		return errs.Wrap(errs.ErrMissingFile, "%s", format.FileUUIDs)
	}
	uuids, err := parseUUIDs(uuidsRaw, r.numTrails)
	if err != nil {
		return err
	}
	r.uuids = uuids

	r.data = components[format.FileData]

	tocRaw, ok := components[format.FileTOC]
	if !ok {
		return errs.Wrap(errs.ErrMissingFile, "%s", format.FileTOC)
	}
	toc, err := parseTOC(tocRaw, r.numTrails, uint64(len(r.data)))
	if err != nil {
		return err
	}
	r.toc = toc

	cbRaw, ok := components[format.FileCodebook]
	if !ok {
		return errs.Wrap(errs.ErrMissingFile, "%s", format.FileCodebook)
	}
	cb, err := huffman.ReadCodebook(cbRaw)
	if err != nil {
		return err
	}
	r.codebook = cb

	return nil
}

// parseInfo parses "<num_trails> <num_events> <min_timestamp>
// <max_timestamp> <max_timedelta>\n" (§6 "info file format").
func (r *Reader) parseInfo(raw []byte) error {
	var nt, ne, minTS, maxTS, maxDelta uint64
	n, err := fmt.Sscanf(string(raw), "%d %d %d %d %d", &nt, &ne, &minTS, &maxTS, &maxDelta)
	if err != nil || n != 5 {
		return errs.Wrap(errs.ErrInvalidInfo, "info: %v", err)
	}
	r.numTrails = nt
	r.numEvents = ne
	r.minTimestamp = minTS
	r.maxTimestamp = maxTS
	r.maxTimedelta = maxDelta
	return nil
}

// parseFields splits the fields file into one name per line, per §6
// ("fields file format... terminated by \n").
func parseFields(raw []byte) ([]string, error) {
	s := string(raw)
	if s == "" {
		return nil, nil
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	for _, name := range lines {
		if name == "" {
			return nil, errs.Wrap(errs.ErrInvalidInfo, "fields: empty field name")
		}
	}
	return lines, nil
}

func parseUUIDs(raw []byte, numTrails uint64) ([]uuidmap.UUID, error) {
	if uint64(len(raw)) != numTrails*16 {
		return nil, errs.Wrap(errs.ErrTruncatedFile, "uuids: got %d bytes, want %d", len(raw), numTrails*16)
	}
	out := make([]uuidmap.UUID, numTrails)
	for i := range out {
		copy(out[i][:], raw[16*i:16*i+16])
	}
	return out, nil
}

// FieldNames returns the non-time field names in field-id order.
func (r *Reader) FieldNames() []string { return r.fieldNames }

// NumTrails returns the number of distinct trails (uuids) in the store.
func (r *Reader) NumTrails() uint64 { return r.numTrails }

// NumEvents returns the total number of events across every trail.
func (r *Reader) NumEvents() uint64 { return r.numEvents }

// MinTimestamp returns the smallest event timestamp observed anywhere.
func (r *Reader) MinTimestamp() uint64 { return r.minTimestamp }

// MaxTimestamp returns the largest event timestamp observed anywhere.
func (r *Reader) MaxTimestamp() uint64 { return r.maxTimestamp }

// TrailID looks up the dense trail id assigned to uuid (ascending-uuid
// order, fixed at finalize time), or (0, false) if uuid is not present.
func (r *Reader) TrailID(uuid uuidmap.UUID) (uint64, bool) {
	lo, hi := 0, len(r.uuids)
	for lo < hi {
		mid := (lo + hi) / 2
		switch bytes.Compare(r.uuids[mid][:], uuid[:]) {
		case 0:
			return uint64(mid), true
		case -1:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0, false
}

// UUID returns the uuid assigned to trail id, or the zero uuid if out of
// range.
func (r *Reader) UUID(trailID uint64) uuidmap.UUID {
	if trailID >= uint64(len(r.uuids)) {
		return uuidmap.UUID{}
	}
	return r.uuids[trailID]
}

// GetValue returns the interned bytes for field's value id, or nil if id is
// NULL or out of range (§8 "get_value round-trips").
func (r *Reader) GetValue(field string, id uint64) []byte {
	i, ok := r.fieldIdx[field]
	if !ok {
		return nil
	}
	return r.lexicons[i].Get(item.Val(id))
}

// MatchTermFor builds a Term matching field's current value against value's
// interned id, for use in a Clause. It fails with ErrUnknownField if field
// does not exist and ErrNoSuchItem if value was never interned for field
// (§7 "Query": "no such item in filter").
func (r *Reader) MatchTermFor(field string, value []byte, negated bool) (Term, error) {
	i, ok := r.fieldIdx[field]
	if !ok {
		return Term{}, errs.Wrap(errs.ErrUnknownField, "field %q", field)
	}
	id, ok := r.lexicons[i].Find(value)
	if !ok {
		return Term{}, errs.Wrap(errs.ErrNoSuchItem, "field %q, value %q", field, value)
	}
	return MatchTerm(item.Make(item.Field(i+1), id), negated), nil
}

// Close releases every mapping this reader owns. Closing twice, or closing
// a reader that failed to open, is safe.
func (r *Reader) Close() error {
	var firstErr error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.closers = nil
	return firstErr
}
