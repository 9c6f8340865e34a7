package format

// File names within a TrailDB directory (§4.6, §6). These are exact, not
// prefixes: a reader or writer builds a path by joining a root directory
// with one of these names.
const (
	FileVersion  = "version"
	FileInfo     = "info"
	FileFields   = "fields"
	FileUUIDs    = "uuids"
	FileTOC      = "trails.toc"
	FileData     = "trails.data"
	FileCodebook = "trails.codebook"

	// LexiconPrefix is prepended to a field name to build its lexicon file
	// name, e.g. "lexicon.country".
	LexiconPrefix = "lexicon."
)

// DataPadding is the number of trailing zero bytes appended to trails.data
// so that 64-bit bit-reads past the logical end of the last trail never
// touch unmapped memory (§4.5, §9 "manual bit-packing").
const DataPadding = 8
