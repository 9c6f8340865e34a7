package cons

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/traildb/tdb-go/errs"
	"github.com/traildb/tdb-go/format"
	"github.com/traildb/tdb-go/huffman"
)

// fileSet holds every TrailDB component file's complete bytes in memory,
// in a fixed, deterministic order, so the same construction serves both
// the directory layout (one os.WriteFile per entry) and the package
// archive layout (one table-of-contents over the same entries, §4.6).
type fileSet struct {
	names []string
	data  [][]byte
}

func (fs *fileSet) add(name string, data []byte) {
	fs.names = append(fs.names, name)
	fs.data = append(fs.data, data)
}

// buildFileSet renders every on-disk component from the finalized trail
// set, independent of whether the caller wants a directory or a package
// archive (§4.6, §6).
func (b *Builder) buildFileSet(trails []groupedTrail, encoded [][]byte, cb *huffman.Codebook, maxTimedelta uint64) (*fileSet, error) {
	fs := &fileSet{}

	fs.add(format.FileVersion, []byte(strconv.FormatUint(format.Version, 10)))
	fs.add(format.FileInfo, b.encodeInfo(trails, maxTimedelta))
	var fieldsBuf bytes.Buffer
	for _, name := range b.fieldNames {
		fieldsBuf.WriteString(name)
		fieldsBuf.WriteByte('\n')
	}
	fs.add(format.FileFields, fieldsBuf.Bytes())

	for i, name := range b.fieldNames {
		var buf bytes.Buffer
		if err := b.lexicons[i].Write(&buf); err != nil {
			return nil, err
		}
		fs.add(format.LexiconPrefix+name, buf.Bytes())
	}

	fs.add(format.FileUUIDs, encodeUUIDs(trails))

	toc, data := encodeTOCAndData(encoded)
	fs.add(format.FileTOC, toc)
	fs.add(format.FileData, data)

	var cbBuf bytes.Buffer
	if err := cb.Write(&cbBuf); err != nil {
		return nil, err
	}
	fs.add(format.FileCodebook, cbBuf.Bytes())

	return fs, nil
}

// encodeInfo formats "<num_trails> <num_events> <min_timestamp>
// <max_timestamp> <max_timedelta>\n" as unsigned decimals (§6 "info file
// format").
func (b *Builder) encodeInfo(trails []groupedTrail, maxTimedelta uint64) []byte {
	var numEvents uint64
	for _, t := range trails {
		numEvents += uint64(len(t.events))
	}

	return []byte(fmt.Sprintf("%d %d %d %d %d\n",
		len(trails), numEvents, b.minTimestamp, b.maxTimestamp, maxTimedelta))
}

// encodeUUIDs packs every trail's uuid, 16 bytes each, in ascending trail-id
// order (§4.6 "UUIDs file").
func encodeUUIDs(trails []groupedTrail) []byte {
	buf := make([]byte, 16*len(trails))
	for i, t := range trails {
		copy(buf[16*i:16*i+16], t.uuid[:])
	}
	return buf
}

// tocEntrySize returns 4 if totalDataSize (including the trailing zero
// pad) fits a u32, else 8 (§4.6 "trails.toc").
func tocEntrySize(totalDataSize uint64) int {
	if totalDataSize < (uint64(1) << 32) {
		return 4
	}
	return 8
}

// encodeTOCAndData packs trails.data (concatenated per-trail bit streams
// plus format.DataPadding zero bytes) and trails.toc (num_trails+1 byte
// offsets into trails.data, the last entry equal to trails.data's total
// size).
func encodeTOCAndData(encoded [][]byte) (toc, data []byte) {
	var total uint64
	offsets := make([]uint64, len(encoded)+1)
	for i, e := range encoded {
		offsets[i] = total
		total += uint64(len(e))
	}
	total += format.DataPadding
	offsets[len(encoded)] = total

	data = make([]byte, total)
	var pos uint64
	for _, e := range encoded {
		copy(data[pos:], e)
		pos += uint64(len(e))
	}

	entrySize := tocEntrySize(total)
	toc = make([]byte, entrySize*len(offsets))
	for i, off := range offsets {
		if entrySize == 4 {
			binary.LittleEndian.PutUint32(toc[4*i:4*i+4], uint32(off))
		} else {
			binary.LittleEndian.PutUint64(toc[8*i:8*i+8], off)
		}
	}
	return toc, data
}

// writeDir writes the directory-of-files layout (§4.6, §6).
func (b *Builder) writeDir(dir string, trails []groupedTrail, encoded [][]byte, cb *huffman.Codebook, fs *huffman.FieldStats, maxTimedelta uint64) error {
	_ = fs // field_stats is derivable by a reader from fields + lexicon sizes + info; not separately persisted

	set, err := b.buildFileSet(trails, encoded, cb, maxTimedelta)
	if err != nil {
		return err
	}
	for i, name := range set.names {
		if err := os.WriteFile(filepath.Join(dir, name), set.data[i], 0o644); err != nil {
			return errs.Wrap(errs.ErrWrite, "%s: %v", name, err)
		}
	}
	return nil
}
