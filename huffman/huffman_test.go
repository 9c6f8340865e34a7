package huffman

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/traildb/tdb-go/format"
	"github.com/traildb/tdb-go/item"
	"github.com/traildb/tdb-go/model"
)

func mkItem(field uint32, val uint64) item.Item {
	return item.Make(item.Field(field), item.Val(val))
}

func TestBuildAssignsShorterCodesToMoreFrequentGrams(t *testing.T) {
	hot := model.Unigram(mkItem(1, 1))
	cold := model.Unigram(mkItem(1, 2))

	cb := Build(map[model.Gram]uint64{hot: 1000, cold: 1})

	hotCode, ok := cb.Lookup(hot)
	require.True(t, ok)
	coldCode, ok := cb.Lookup(cold)
	require.True(t, ok)
	require.LessOrEqual(t, hotCode.Len, coldCode.Len)
}

func TestEncodeDecodeRoundTripUnigramAndBigram(t *testing.T) {
	ts := mkItem(0, 42)
	a := mkItem(1, 7)
	b := mkItem(2, 3)

	uniTS := model.Unigram(ts)
	uniA := model.Unigram(a)
	uniB := model.Unigram(b)
	bi := model.Bigram(ts, a)

	freqs := map[model.Gram]uint64{
		uniTS: 10,
		uniA:  10,
		uniB:  1,
		bi:    1000,
	}
	cb := Build(freqs)
	fs := &FieldStats{
		FieldIDBits: 4,
		FieldBits:   []uint32{16, 16, 16},
	}

	buf := make([]byte, 64)
	var offs uint64

	grams := []model.Gram{bi, uniB}
	for _, g := range grams {
		EncodeGram(cb, fs, g, buf, &offs)
	}

	var decoded []model.Gram
	var roffs uint64
	for i := 0; i < len(grams); i++ {
		g := DecodeGram(cb, fs, buf, &roffs)
		decoded = append(decoded, g)
	}

	require.Equal(t, grams, decoded)
	require.Equal(t, offs, roffs)
}

func TestFieldStatsLiteralBits(t *testing.T) {
	fs := ComputeFieldStats(3, []uint64{5, 100}, 1<<20)
	require.Equal(t, uint32(2), fs.FieldIDBits) // bits_needed(3) == 2
	require.Positive(t, fs.FieldBits[0])
	require.Positive(t, fs.LiteralBits(1))
}

func TestCodebookWriteProducesOneFixedSizeRecordPerSlot(t *testing.T) {
	hot := model.Unigram(mkItem(1, 1))
	cold := model.Bigram(mkItem(0, 42), mkItem(2, 3))

	cb := Build(map[model.Gram]uint64{hot: 5, cold: 1})

	var buf bytes.Buffer
	require.NoError(t, cb.Write(&buf))
	require.Len(t, buf.Bytes(), format.HuffCodebookSize*codebookRecordSize)

	hotCode, ok := cb.Lookup(hot)
	require.True(t, ok)
	coldCode, ok := cb.Lookup(cold)
	require.True(t, ok)

	record := func(i int) []byte {
		return buf.Bytes()[i*codebookRecordSize : (i+1)*codebookRecordSize]
	}

	rec := record(int(hotCode.Bits))
	require.Equal(t, byte(0), rec[0]) // unigram: not paired
	require.Equal(t, uint32(hotCode.Len), binary.LittleEndian.Uint32(rec[17:21]))

	rec = record(int(coldCode.Bits))
	require.Equal(t, byte(1), rec[0]) // bigram: paired
	require.Equal(t, uint32(coldCode.Len), binary.LittleEndian.Uint32(rec[17:21]))
}
