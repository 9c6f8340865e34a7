package cons

import "github.com/traildb/tdb-go/internal/pool"

// trailScratchPool recycles the oversized scratch buffer encodeTrail bit-packs
// into before copying the exact-size result out; one Finalize call encodes
// every trail in the store through it, which is exactly the
// allocate-once-amortize-over-many-callers shape internal/pool's
// ByteBufferPool was built for: grow, fill, copy out, reset, reuse.
var trailScratchPool = pool.NewByteBufferPool(pool.BlobBufferDefaultSize, pool.BlobBufferMaxThreshold)

// bitWriter is a growable byte buffer addressed at bit granularity by
// huffman.EncodeGram, matching the original's convention of a buffer
// pre-sized generously and grown/checked for overflow
// (original_source/src/tdb_huffman.c's huff_encode_grams worst-case check).
// Go makes the "pre-size a 512MB buffer" trick unnecessary; growing on
// demand is simpler and just as fast in amortized terms. Its backing slice
// comes from trailScratchPool so repeated per-trail encodes in one
// Finalize call reuse one growing buffer instead of allocating fresh.
//
// internal/bits.Write/Write64 OR new bits into place (word |= val << shift),
// which only produces correct results if every byte starts zeroed.
// ByteBuffer.Reset (called on Put) only truncates length, it never wipes
// the backing array, so a reused buffer can carry the previous trail's
// leftover bits; every acquire and growth below clears the bytes it
// exposes instead of relying on Reset for that.
type bitWriter struct {
	bb   *pool.ByteBuffer
	buf  []byte
	offs uint64
}

// newBitWriter borrows a scratch buffer from trailScratchPool, grown to at
// least capacityHint bytes and zeroed. Call release when done.
func newBitWriter(capacityHint int) *bitWriter {
	if capacityHint < 32 {
		capacityHint = 32
	}
	bb := trailScratchPool.Get()
	if bb.Cap() < capacityHint {
		bb.Grow(capacityHint) // bb.Len() is 0 here (Put reset it), so this is the full amount short
	}
	bb.SetLength(bb.Cap())
	clear(bb.Bytes())
	return &bitWriter{bb: bb, buf: bb.Bytes()}
}

// release returns the backing buffer to trailScratchPool.
func (w *bitWriter) release() {
	trailScratchPool.Put(w.bb)
	w.bb = nil
	w.buf = nil
}

// reserve ensures at least headroomBits of additional space, plus the
// internal/bits read/write contract's 8-byte window past the highest
// offset touched.
func (w *bitWriter) reserve(headroomBits uint64) {
	needBytes := int((w.offs+headroomBits)/8) + 16
	if needBytes <= len(w.buf) {
		return
	}
	grown := len(w.buf) * 2
	if grown < needBytes {
		grown = needBytes
	}

	oldLen := w.bb.Len()
	// w.bb's length already equals its capacity (the full scratch array is
	// "in use" the whole time, unlike ByteBuffer's usual append-and-grow
	// pattern), so Grow's "extra bytes beyond current length" contract lines
	// up directly with how many more bytes this reserve needs.
	w.bb.Grow(grown - oldLen)
	w.bb.SetLength(w.bb.Cap())
	w.buf = w.bb.Bytes()
	clear(w.buf[oldLen:]) // only the newly exposed tail; the prefix holds this trail's already-written bits
}

// maxGramBits safely bounds the bits a single gram (including a
// worst-case decomposed bigram) can consume: two literals of up to 1 +
// 14-bit field id + 48-bit value each.
const maxGramBits = 2 * (1 + 14 + 48)
