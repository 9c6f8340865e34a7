// Package cons implements the TrailDB builder: field/lexicon setup, event
// ingestion into spillable arenas, per-UUID grouping and timestamp delta
// encoding, two-pass gram modeling, Huffman codebook construction, and the
// final trail/file writer (§4.1-§4.6). Configuration follows the teacher's
// functional-options convention (internal/options).
package cons

import (
	"fmt"

	"github.com/traildb/tdb-go/format"
	"github.com/traildb/tdb-go/internal/options"
)

// Options configures a Builder. Use the With* functions with NewBuilder.
type Options struct {
	spillThreshold     int
	sampleRate         float64
	sampleSeed         uint64
	supportThreshold   float64
	outputFormat       format.OutputFormat
	packageCompression format.CompressionType
	tempDir            string
}

// Option configures a Builder at construction time.
type Option = options.Option[*Options]

func defaultOptions() Options {
	return Options{
		sampleRate:         format.DefaultSampleRate,
		sampleSeed:         1,
		supportThreshold:   format.SupportThreshold,
		outputFormat:       format.OutputDir,
		packageCompression: format.CompressionZstd,
	}
}

// WithSpillThreshold sets the number of bytes an arena holds in memory
// before spilling to a temp file (0 selects arena.DefaultSpillThreshold).
func WithSpillThreshold(n int) Option {
	return options.NoError(func(o *Options) { o.spillThreshold = n })
}

// WithSampleRate sets the fraction of trails sampled during gram modeling
// (default 0.1, §4.4 "Sampling knob").
func WithSampleRate(rate float64) Option {
	return options.New(func(o *Options) error {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("cons: sample rate %v out of [0,1]", rate)
		}
		o.sampleRate = rate
		return nil
	})
}

// WithSampleSeed fixes the sampler's PRNG seed, for reproducible builds.
func WithSampleSeed(seed uint64) Option {
	return options.NoError(func(o *Options) { o.sampleSeed = seed })
}

// WithSupportThreshold sets the minimum relative unigram frequency required
// to become a bigram candidate (default format.SupportThreshold).
func WithSupportThreshold(support float64) Option {
	return options.New(func(o *Options) error {
		if support < 0 || support > 1 {
			return fmt.Errorf("cons: support threshold %v out of [0,1]", support)
		}
		o.supportThreshold = support
		return nil
	})
}

// WithOutputFormat selects directory or single-file package output
// (§4.6 "Optional package").
func WithOutputFormat(f format.OutputFormat) Option {
	return options.NoError(func(o *Options) { o.outputFormat = f })
}

// WithPackageCompression selects the compressor applied to a package
// archive's table of contents (ignored for directory output).
func WithPackageCompression(c format.CompressionType) Option {
	return options.NoError(func(o *Options) { o.packageCompression = c })
}

// WithTempDir sets the directory spill files and intermediate state are
// created in (default: the OS temp directory).
func WithTempDir(dir string) Option {
	return options.NoError(func(o *Options) { o.tempDir = dir })
}
