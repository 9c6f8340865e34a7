package reader

import "github.com/traildb/tdb-go/internal/options"

// readerOptions configures a Reader. Follows the builder's functional-options
// convention (cons.Option), both built on internal/options.
type readerOptions struct {
	globalFilter *Filter
}

// Option configures a Reader at Open time.
type Option = options.Option[*readerOptions]

func defaultOptions() readerOptions {
	return readerOptions{}
}

// WithGlobalFilter installs a reader-wide filter, the lowest-precedence
// level in §4.8's "cursor-set > per-trail > reader-global > none" chain:
// every cursor opened from this reader uses it unless overridden.
func WithGlobalFilter(f *Filter) Option {
	return options.NoError(func(o *readerOptions) { o.globalFilter = f })
}
