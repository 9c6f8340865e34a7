// Package arena implements the builder's append-only event and item
// stores (§4.2 "Event and item arenas"): growing, fixed-record-size
// buffers that spill to a private temp file once they cross a configurable
// in-memory threshold, and that become randomly addressable (via mmap, see
// internal/mmapfile) once ingestion finishes and the grouping pass begins.
package arena

import (
	"os"

	"github.com/traildb/tdb-go/internal/mmapfile"
)

// DefaultSpillThreshold is the default number of bytes an arena holds in
// memory before it starts spilling new records to its temp file.
const DefaultSpillThreshold = 256 << 20 // 256 MiB

// spillBuffer is a fixed-record-size append log: in-memory while small,
// transparently continued on a temp file once it grows past threshold.
// Records may only be appended before Freeze, and may only be read
// (via record) after Freeze — this matches the builder's two-phase
// lifecycle (ingest, then the single-pass grouper/gram model reads).
type spillBuffer struct {
	recordSize int
	threshold  int

	mem   []byte // valid only before spilling has started
	count uint64

	tmp       *os.File
	spilled   bool
	tmpPath   string
	frozen    *mmapfile.File // valid only after Freeze, when spilled
}

func newSpillBuffer(recordSize, threshold int) *spillBuffer {
	if threshold <= 0 {
		threshold = DefaultSpillThreshold
	}
	return &spillBuffer{recordSize: recordSize, threshold: threshold}
}

// openTemp lazily creates the private spill file the first time the
// in-memory buffer overflows.
func (b *spillBuffer) openTemp(dir string) error {
	f, err := os.CreateTemp(dir, "tdb-cons-arena-*.tmp")
	if err != nil {
		return err
	}
	b.tmp = f
	b.tmpPath = f.Name()
	return nil
}

// append writes one fixed-size record and returns its 0-based index.
func (b *spillBuffer) append(dir string, record []byte) (uint64, error) {
	idx := b.count
	b.count++

	if !b.spilled && len(b.mem)+len(record) > b.threshold {
		if err := b.spillToFile(dir); err != nil {
			return 0, err
		}
	}

	if b.spilled {
		if _, err := b.tmp.Write(record); err != nil {
			return 0, err
		}
		return idx, nil
	}

	b.mem = append(b.mem, record...)
	return idx, nil
}

// spillToFile flushes the current in-memory contents to a new temp file
// and switches the buffer into spilled mode for all future appends.
func (b *spillBuffer) spillToFile(dir string) error {
	if err := b.openTemp(dir); err != nil {
		return err
	}
	if _, err := b.tmp.Write(b.mem); err != nil {
		return err
	}
	b.mem = nil
	b.spilled = true
	return nil
}

// freeze closes the buffer to further appends and makes its contents
// randomly addressable via record().
func (b *spillBuffer) freeze() error {
	if !b.spilled {
		return nil
	}
	if err := b.tmp.Sync(); err != nil {
		return err
	}
	if err := b.tmp.Close(); err != nil {
		return err
	}
	f, err := mmapfile.Open(b.tmpPath)
	if err != nil {
		return err
	}
	b.frozen = f
	return nil
}

// record returns the raw bytes of record idx. Valid only after freeze.
func (b *spillBuffer) record(idx uint64) []byte {
	off := int(idx) * b.recordSize
	if b.spilled {
		return b.frozen.Data[off : off+b.recordSize]
	}
	return b.mem[off : off+b.recordSize]
}

// len returns the number of appended records.
func (b *spillBuffer) len() uint64 { return b.count }

// close releases the mapping and removes the private temp file, if one was
// created.
func (b *spillBuffer) close() error {
	if b.frozen != nil {
		_ = b.frozen.Close()
	}
	if b.tmpPath != "" {
		return os.Remove(b.tmpPath)
	}
	return nil
}
