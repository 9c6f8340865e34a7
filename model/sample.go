package model

import (
	"math/rand/v2"

	"github.com/traildb/tdb-go/format"
)

// Sampler decides which trails participate in gram-frequency modeling
// (get_sample_size/event_fold in original_source/src/tdb_encode_model.c
// sample a percentage of trails, not events, defaulting to 10%). Sampling
// trails rather than events keeps a single trail's events from being split
// across the sampled/unsampled boundary, which would bias edge encoding.
type Sampler struct {
	rate    float64
	rng     *rand.Rand
	started bool
}

// NewSampler creates a sampler that includes a rate fraction of trails
// (rate outside (0,1] selects format.DefaultSampleRate), seeded
// deterministically so rebuilding from identical input reproduces the same
// model.
func NewSampler(rate float64, seed uint64) *Sampler {
	if rate <= 0 || rate > 1 {
		rate = format.DefaultSampleRate
	}
	return &Sampler{rate: rate, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Include reports whether the next trail should be sampled. The first call
// always returns true, so a tiny input never samples down to nothing
// (mirrors "always include the first cookie" in event_fold).
func (s *Sampler) Include() bool {
	if !s.started {
		s.started = true
		return true
	}
	return s.rng.Float64() < s.rate
}
