package cons

import (
	"github.com/traildb/tdb-go/huffman"
	"github.com/traildb/tdb-go/internal/bits"
	"github.com/traildb/tdb-go/item"
	"github.com/traildb/tdb-go/model"
)

// edgeEncodeEvent prepends ev's timestamp-delta pseudo-item (field 0,
// never elided, §4.3) to the subset of ev's real items that changed since
// the trail's previous event.
func edgeEncodeEvent(enc *model.EdgeEncoder, ev groupedEvent) []item.Item {
	out := make([]item.Item, 0, len(ev.items)+1)
	out = append(out, item.Make(item.Field(0), item.Val(ev.delta)))
	out = append(out, enc.Encode(ev.items)...)
	return out
}

// encodeTrail bit-packs one trail's full event sequence into a
// byte-aligned buffer, prefixed by its own 3-bit tail-residual header
// (§4.5 "Trail framing"): the header records how many of the final byte's
// bits are padding, which a decoder needs since the codebook's flat
// decode table can overread a few bits past the true end of a gram stream.
func encodeTrail(t groupedTrail, cb *huffman.Codebook, fs *huffman.FieldStats, bigramFreqs map[model.Gram]uint64) []byte {
	w := newBitWriter(len(t.events)*8 + 16)
	defer w.release()
	w.offs = 3 // reserve the tail-residual header

	enc := model.NewEdgeEncoder()
	for _, ev := range t.events {
		edged := edgeEncodeEvent(enc, ev)
		for _, g := range model.Choose(edged, bigramFreqs) {
			w.reserve(maxGramBits)
			huffman.EncodeGram(cb, fs, g, w.buf, &w.offs)
		}
	}

	byteLen := (w.offs + 7) / 8
	residual := byteLen*8 - w.offs
	w.reserve(0)
	bits.Write(w.buf, 0, residual)

	out := make([]byte, byteLen)
	copy(out, w.buf[:byteLen])
	return out
}
