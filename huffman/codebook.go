package huffman

import (
	"encoding/binary"
	"io"
	"sort"

	"github.com/traildb/tdb-go/errs"
	"github.com/traildb/tdb-go/format"
	"github.com/traildb/tdb-go/item"
	"github.com/traildb/tdb-go/model"
)

// Code is one gram's Huffman codeword: the low Len bits of Bits, written
// and read least-significant-bit first like every other bitstream value in
// this format.
type Code struct {
	Bits uint32
	Len  uint32
}

// decodeEntry is one slot of the flat, alias-expanded decode table: every
// index sharing a codeword's low Len bits maps to that codeword's gram
// (huff_create_codebook in original_source/src/tdb_huffman.c).
type decodeEntry struct {
	gram model.Gram
	bits uint32
}

// Codebook is a built Huffman code: a gram -> codeword map for encoding,
// plus a flat 2^16-entry table for constant-time decoding.
type Codebook struct {
	codes map[model.Gram]Code
	flat  []decodeEntry
}

// Build keeps at most format.HuffCodebookSize of the most frequent grams in
// freqs (sort_symbols in tdb_huffman.c truncates the same way), builds a
// Huffman tree over them, and flattens it into a decode table.
func Build(freqs map[model.Gram]uint64) *Codebook {
	symbols := make([]model.Gram, 0, len(freqs))
	for g := range freqs {
		symbols = append(symbols, g)
	}
	sort.Slice(symbols, func(i, j int) bool {
		if freqs[symbols[i]] != freqs[symbols[j]] {
			return freqs[symbols[i]] > freqs[symbols[j]]
		}
		return less(symbols[i], symbols[j])
	})
	if len(symbols) > format.HuffCodebookSize {
		symbols = symbols[:format.HuffCodebookSize]
	}

	root := buildTree(symbols, freqs)
	codes := make(map[model.Gram]Code, len(symbols))
	if root != nil && root.isLeaf {
		// A lone symbol still gets a 1-bit code: a 0-bit one would be
		// written as an all-zero (empty) record and lost on read.
		codes[root.gram] = Code{Bits: 0, Len: 1}
	} else {
		assignCodes(root, 0, 0, codes)
	}

	flat := make([]decodeEntry, format.HuffCodebookSize)
	for g, c := range codes {
		alias := uint32(1) << (format.HuffMaxCodeBits - c.Len)
		for j := uint32(0); j < alias; j++ {
			idx := c.Bits | (j << c.Len)
			flat[idx] = decodeEntry{gram: g, bits: c.Len}
		}
	}

	return &Codebook{codes: codes, flat: flat}
}

// Lookup returns g's codeword and true if g earned a Huffman code.
func (cb *Codebook) Lookup(g model.Gram) (Code, bool) {
	c, ok := cb.codes[g]
	return c, ok
}

// decode returns the gram and bit-length encoded by the low 16 bits of
// word, looked up via the flat alias table.
func (cb *Codebook) decode(word uint32) (model.Gram, uint32) {
	e := cb.flat[word&(format.HuffCodebookSize-1)]
	return e.gram, e.bits
}

// Len returns the number of grams that earned a Huffman codeword.
func (cb *Codebook) Len() int { return len(cb.codes) }

// codebookRecordSize is the on-disk width of one trails.codebook entry.
// original_source/src/tdb_huffman.c packs a symbol into a single 8-byte
// word because its grams are built from narrow (32-bit) items only, so two
// of them fit in 64 bits. This package's model.Gram carries full item.Item
// values (a wide item alone can occupy all 64 bits, see item.Make), so a
// gram's two member items cannot be packed losslessly into one u64; the
// record grows to hold both items explicitly plus a pairing flag.
const codebookRecordSize = 1 + 8 + 8 + 4

// Write serializes the flat decode table to w: format.HuffCodebookSize
// fixed-size records of [paired u8][first u64][second u64][bits u32],
// little-endian. An all-zero record (paired=0, first=0, second=0, bits=0)
// marks a decode-table slot with no assigned symbol.
func (cb *Codebook) Write(w io.Writer) error {
	rec := make([]byte, codebookRecordSize)
	for _, e := range cb.flat {
		if e.bits == 0 {
			clear(rec)
		} else {
			if e.gram.IsBigram() {
				rec[0] = 1
			} else {
				rec[0] = 0
			}
			binary.LittleEndian.PutUint64(rec[1:9], uint64(e.gram.First))
			binary.LittleEndian.PutUint64(rec[9:17], uint64(e.gram.Second))
			binary.LittleEndian.PutUint32(rec[17:21], e.bits)
		}
		if _, err := w.Write(rec); err != nil {
			return errs.Wrap(errs.ErrWrite, "codebook record: %v", err)
		}
	}
	return nil
}

// ReadCodebook parses a trails.codebook file's bytes (format.HuffCodebookSize
// fixed-size records as written by Write) into a Codebook whose flat decode
// table is ready for DecodeGram. The returned Codebook's codes map is left
// nil: a reader only ever decodes, it never re-encodes an existing store's
// gram stream, so no gram->codeword map is reconstructed.
func ReadCodebook(raw []byte) (*Codebook, error) {
	want := format.HuffCodebookSize * codebookRecordSize
	if len(raw) != want {
		return nil, errs.Wrap(errs.ErrTruncatedFile, "codebook: got %d bytes, want %d", len(raw), want)
	}

	flat := make([]decodeEntry, format.HuffCodebookSize)
	for i := range flat {
		rec := raw[i*codebookRecordSize : (i+1)*codebookRecordSize]
		bitsLen := binary.LittleEndian.Uint32(rec[17:21])
		if bitsLen == 0 {
			continue
		}
		first := item.Item(binary.LittleEndian.Uint64(rec[1:9]))
		second := item.Item(binary.LittleEndian.Uint64(rec[9:17]))
		var g model.Gram
		if rec[0] == 1 {
			g = model.Bigram(first, second)
		} else {
			g = model.Unigram(first)
		}
		flat[i] = decodeEntry{gram: g, bits: bitsLen}
	}

	return &Codebook{flat: flat}, nil
}

// less provides a total, arbitrary-but-deterministic order over grams with
// equal frequency, so codebook construction is reproducible across runs.
func less(a, b model.Gram) bool {
	if a.First != b.First {
		return a.First < b.First
	}
	if a.Paired != b.Paired {
		return !a.Paired
	}
	return a.Second < b.Second
}
