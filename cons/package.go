package cons

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/traildb/tdb-go/compress"
	"github.com/traildb/tdb-go/errs"
	"github.com/traildb/tdb-go/format"
	"github.com/traildb/tdb-go/huffman"
)

// packageMagic identifies a single-file TrailDB package archive.
const packageMagic = "TDBPKG01"

// packageTOCEntry describes one embedded component file within a package
// archive: its name, and its byte range in the archive's body section.
type packageTOCEntry struct {
	name   string
	offset uint64
	length uint64
}

// writePackage writes every component file produced by buildFileSet into a
// single tar-like archive (§4.6 "Optional package"): a fixed-offset header
// naming the compression used for the table of contents, the (optionally
// compressed) TOC itself, and the concatenated, uncompressed component
// bodies. Component bodies are not compressed: trails.data is already
// Huffman-coded, and lexicons/uuids are small relative to it; compression
// is applied only to the TOC, matching the teacher's blob-level
// compression codec selection repurposed for a different payload.
func (b *Builder) writePackage(outDir string, trails []groupedTrail, encoded [][]byte, cb *huffman.Codebook, fs *huffman.FieldStats, maxTimedelta uint64) error {
	_ = fs

	set, err := b.buildFileSet(trails, encoded, cb, maxTimedelta)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	entries := make([]packageTOCEntry, len(set.names))
	var offset uint64
	for i, name := range set.names {
		entries[i] = packageTOCEntry{name: name, offset: offset, length: uint64(len(set.data[i]))}
		body.Write(set.data[i])
		offset += uint64(len(set.data[i]))
	}

	rawTOC := encodePackageTOC(entries)

	codec, err := compress.CreateCodec(b.opts.packageCompression, "package TOC")
	if err != nil {
		return err
	}
	compressedTOC, err := codec.Compress(rawTOC)
	if err != nil {
		return errs.Wrap(errs.ErrWrite, "compress package TOC: %v", err)
	}

	var header bytes.Buffer
	header.WriteString(packageMagic)
	writeU64(&header, format.Version)
	header.WriteByte(byte(b.opts.packageCompression))
	writeU64(&header, uint64(len(rawTOC)))
	writeU64(&header, uint64(len(compressedTOC)))
	header.Write(compressedTOC)

	path := filepath.Join(outDir, "traildb.pkg")
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrOpen, "%s: %v", path, err)
	}
	_, werr := header.WriteTo(f)
	if werr == nil {
		_, werr = body.WriteTo(f)
	}
	cerr := f.Close()
	if werr != nil {
		return errs.Wrap(errs.ErrWrite, "%s: %v", path, werr)
	}
	if cerr != nil {
		return errs.Wrap(errs.ErrClose, "%s: %v", path, cerr)
	}
	return nil
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	buf.Write(tmp[:])
}

// encodePackageTOC serializes entries as [count u32][name-len u16, name
// bytes, offset u64, length u64]*count.
func encodePackageTOC(entries []packageTOCEntry) []byte {
	var buf bytes.Buffer
	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(len(entries)))
	buf.Write(countBuf[:])

	for _, e := range entries {
		var lenBuf [2]byte
		binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(e.name)))
		buf.Write(lenBuf[:])
		buf.WriteString(e.name)
		writeU64(&buf, e.offset)
		writeU64(&buf, e.length)
	}
	return buf.Bytes()
}
