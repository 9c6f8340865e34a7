package cons

import (
	"github.com/traildb/tdb-go/errs"
	"github.com/traildb/tdb-go/format"
	"github.com/traildb/tdb-go/huffman"
	"github.com/traildb/tdb-go/item"
	"github.com/traildb/tdb-go/model"
)

// Finalize closes ingestion and writes a complete TrailDB file set (or
// package archive, per WithOutputFormat) to outDir, which must already
// exist. Finalize may be called exactly once.
func (b *Builder) Finalize(outDir string) error {
	if b.finalized {
		return errs.ErrBuilderFinalized
	}
	b.finalized = true

	if err := b.events.Freeze(); err != nil {
		return err
	}
	if err := b.items.Freeze(); err != nil {
		return err
	}

	trails, maxTimedelta, err := b.group()
	if err != nil {
		return err
	}

	mdl, bigramFreqs := b.buildGramModel(trails)

	numFields := len(b.fieldNames) + 1 // +1 for the timestamp pseudo-field
	cardinalities := make([]uint64, len(b.lexicons))
	for i, lx := range b.lexicons {
		cardinalities[i] = uint64(lx.Len())
	}
	fs := huffman.ComputeFieldStats(numFields, cardinalities, maxTimedelta)
	cb := huffman.Build(mdl.Freqs)

	encoded := make([][]byte, len(trails))
	for i, t := range trails {
		encoded[i] = encodeTrail(t, cb, fs, bigramFreqs)
	}

	switch b.opts.outputFormat {
	case format.OutputPackage:
		return b.writePackage(outDir, trails, encoded, cb, fs, maxTimedelta)
	default:
		return b.writeDir(outDir, trails, encoded, cb, fs, maxTimedelta)
	}
}

// buildGramModel runs the three-pass sampled gram-modeling algorithm over
// trails, returning the finished Model (for codebook construction) and the
// candidate-bigram frequency table (which encodeTrail reuses to make the
// identical exact-cover decision for every trail, sampled or not).
//
// original_source/src/tdb_encode_model.c's event_fold reseeds a local PRNG
// to the same constant at the start of every pass, so all three passes
// observe the identical sampled subset of trails; a fresh model.Sampler
// built from the same seed for each pass reproduces that.
func (b *Builder) buildGramModel(trails []groupedTrail) (*model.Model, map[model.Gram]uint64) {
	newSampler := func() *model.Sampler {
		return model.NewSampler(b.opts.sampleRate, b.opts.sampleSeed)
	}

	mb := model.NewBuilder()

	s1 := newSampler()
	for _, t := range trails {
		if !s1.Include() {
			continue
		}
		enc := model.NewEdgeEncoder()
		for _, ev := range t.events {
			mb.AddUnigramPass(edgeEncodeEvent(enc, ev))
		}
	}
	mb.FinishUnigramPass(b.opts.supportThreshold)

	s2 := newSampler()
	for _, t := range trails {
		if !s2.Include() {
			continue
		}
		enc := model.NewEdgeEncoder()
		for _, ev := range t.events {
			mb.AddBigramPass(edgeEncodeEvent(enc, ev))
		}
	}

	s3 := newSampler()
	var sampled [][]item.Item
	for _, t := range trails {
		if !s3.Include() {
			continue
		}
		enc := model.NewEdgeEncoder()
		for _, ev := range t.events {
			sampled = append(sampled, edgeEncodeEvent(enc, ev))
		}
	}
	i := 0
	mdl := mb.ChoosePass(func() ([]item.Item, bool) {
		if i >= len(sampled) {
			return nil, false
		}
		items := sampled[i]
		i++
		return items, true
	})

	return mdl, mb.CandidateBigramFreqs()
}
