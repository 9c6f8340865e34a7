// Package mmapfile memory-maps read-only files, grounded on
// SnellerInc-sneller's ion/blockfmt/mmap_linux.go: open, stat, syscall.Mmap
// with PROT_READ/MAP_SHARED, and an explicit unmap on Close. A
// non-syscall fallback (used on platforms without a wired Mmap) reads the
// whole file into a plain byte slice instead.
package mmapfile

import "os"

// File is a read-only mapped (or materialized) file.
type File struct {
	Data []byte

	closer func() error
}

// Open maps path read-only. On platforms without a native Mmap
// implementation wired in (see mmapfile_other.go), it falls back to
// reading the file fully into memory; callers see an identical File either
// way.
func Open(path string) (*File, error) {
	return openImpl(path)
}

// Close releases the mapping (or, for the fallback path, is a no-op since
// the backing array is ordinary heap memory collected by the GC).
func (f *File) Close() error {
	if f == nil || f.closer == nil {
		return nil
	}
	closer := f.closer
	f.closer = nil
	return closer()
}

func readWhole(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &File{Data: data}, nil
}
