package huffman

import (
	"github.com/traildb/tdb-go/format"
	"github.com/traildb/tdb-go/internal/bits"
	"github.com/traildb/tdb-go/item"
	"github.com/traildb/tdb-go/model"
)

// EncodeGram appends one gram to buf at bit offset *offs, advancing *offs by
// however many bits it used. It mirrors encode_gram in
// original_source/src/tdb_huffman.c: a Huffman codeword is used whenever one
// exists and either the gram is a bigram (any codeword beats two literals)
// or the codeword is shorter than the literal encoding; a bigram without a
// beneficial codeword is decomposed into two independent unigram encodes
// rather than written as one combined literal. buf must have at least 7
// zero-padded bytes beyond the highest byte *offs will reach.
func EncodeGram(cb *Codebook, fs *FieldStats, g model.Gram, buf []byte, offs *uint64) {
	code, hasCode := cb.Lookup(g)
	literalBits := fs.LiteralBits(uint32(g.First.Field()))

	useCode := hasCode && (g.IsBigram() || code.Len+1 < literalBits)
	switch {
	case useCode:
		// prefix the codeword with an up bit marking it as Huffman-coded.
		v := uint64(1) | (uint64(code.Bits) << 1)
		bits.Write(buf, *offs, v)
		*offs += uint64(code.Len) + 1
	case g.IsBigram():
		EncodeGram(cb, fs, model.Unigram(g.First), buf, offs)
		EncodeGram(cb, fs, model.Unigram(g.Second), buf, offs)
	default:
		writeLiteral(fs, g.First, buf, offs)
	}
}

// writeLiteral writes [flag=0 (1 bit) | field id (FieldIDBits) | value
// (FieldBits[field])].
func writeLiteral(fs *FieldStats, it item.Item, buf []byte, offs *uint64) {
	field := uint32(it.Field())
	val := uint64(it.Val())
	payload := uint64(field) | (val << fs.FieldIDBits)
	bits.Write64(buf, *offs+1, payload)
	*offs += fs.LiteralBits(field)
}

// DecodeGram reads one gram from buf at bit offset *offs, advancing *offs
// past it, mirroring the decode side of tdb_decode.c's event loop: a
// leading 0 bit means a literal follows, a leading 1 bit means a
// HuffMaxCodeBits-wide window indexes the flat alias table.
func DecodeGram(cb *Codebook, fs *FieldStats, buf []byte, offs *uint64) model.Gram {
	flag := bits.Read(buf, *offs, 1)
	if flag == 0 {
		return model.Unigram(readLiteral(fs, buf, offs))
	}

	window := uint32(bits.Read(buf, *offs+1, format.HuffMaxCodeBits))
	gram, usedBits := cb.decode(window)
	*offs += uint64(usedBits) + 1
	return gram
}

// readLiteral is the mirror image of writeLiteral: it must peek the field
// id before it knows how many value bits to consume, so it reads
// FieldIDBits first and then the value.
func readLiteral(fs *FieldStats, buf []byte, offs *uint64) item.Item {
	field := uint32(bits.Read(buf, *offs+1, fs.FieldIDBits))
	val := bits.Read64(buf, *offs+1+uint64(fs.FieldIDBits), fs.FieldBits[field])
	*offs += 1 + uint64(fs.FieldIDBits) + uint64(fs.FieldBits[field])
	return item.Make(item.Field(field), item.Val(val))
}
