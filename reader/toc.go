package reader

import (
	"encoding/binary"

	"github.com/traildb/tdb-go/errs"
)

// parseTOC reads num_trails+1 little-endian offsets from raw, 4 bytes wide
// if dataSize fits a u32, else 8 bytes wide (§6 "trails.toc"), verifying the
// last entry equals dataSize.
func parseTOC(raw []byte, numTrails, dataSize uint64) ([]uint64, error) {
	entrySize := tocEntrySize(dataSize)
	want := entrySize * int(numTrails+1)
	if len(raw) != want {
		return nil, errs.Wrap(errs.ErrTruncatedFile, "trails.toc: got %d bytes, want %d", len(raw), want)
	}

	out := make([]uint64, numTrails+1)
	for i := range out {
		if entrySize == 4 {
			out[i] = uint64(binary.LittleEndian.Uint32(raw[4*i : 4*i+4]))
		} else {
			out[i] = binary.LittleEndian.Uint64(raw[8*i : 8*i+8])
		}
	}
	if out[len(out)-1] != dataSize {
		return nil, errs.Wrap(errs.ErrInvalidInfo, "trails.toc: last entry %d != trails.data size %d", out[len(out)-1], dataSize)
	}
	return out, nil
}

// tocEntrySize returns 4 if totalDataSize fits a u32, else 8, mirroring
// cons.tocEntrySize on the write side.
func tocEntrySize(totalDataSize uint64) int {
	if totalDataSize < (uint64(1) << 32) {
		return 4
	}
	return 8
}
