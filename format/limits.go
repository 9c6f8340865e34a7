// Package format defines the on-disk constants, size limits, and enumerations
// shared by the cons (builder) and reader packages.
//
// Every constant here is grounded on traildb's original tdb_limits.h and
// tdb_types.h (see original_source/src/tdb_limits.h in the retrieval pack);
// names are translated to Go idiom but the numeric values are unchanged.
package format

// Version is the on-disk format version this package writes and the highest
// version it knows how to read.
const Version uint64 = 1

// VersionV0 is the implicit version assigned to directories with no
// "version" file, for backward compatibility with the original C encoder.
const VersionV0 uint64 = 0

const (
	// MaxPathSize bounds constructed file paths (stack-sized in the C
	// original; kept here only to bound pathological inputs).
	MaxPathSize = 2048

	// FieldNameMax is the maximum length, in bytes, of a field name.
	FieldNameMax = 512

	// MaxNumTrails is the largest number of trails a store may hold.
	// (2^59 - 1), so that num_trails*16 still fits in a signed 64-bit
	// byte offset.
	MaxNumTrails = (uint64(1) << 59) - 1

	// MaxTrailLength bounds the bit-length of a single encoded trail.
	MaxTrailLength = (uint64(1) << 50) - 1

	// FieldsMax is the maximum number of non-time fields (one id is
	// reserved for the time field, one slot for future use).
	FieldsMax = (uint64(1) << 14) - 2

	// ValuesMax is the maximum number of distinct interned values per field
	// (id 0 is reserved for NULL).
	ValuesMax = (uint64(1) << 40) - 2

	// TimedeltaMax bounds timestamp deltas: a trail may only encode deltas
	// strictly less than this value.
	TimedeltaMax = (uint64(1) << 47) - 1

	// Field32Max is the largest field id that may use the narrow 32-bit
	// item encoding.
	Field32Max = 127

	// Val32Max is the largest value id that may use the narrow 32-bit item
	// encoding.
	Val32Max = (uint64(1) << 24) - 1

	// ValueMax bounds the byte length of a single interned value.
	ValueMax = uint64(1) << 10

	// HuffCodebookSize is the number of entries in the flat Huffman decode
	// table (2^16, indexed by the low 16 bits of a codeword).
	HuffCodebookSize = 1 << 16

	// HuffMaxCodeBits is the maximum length, in bits, of a Huffman codeword.
	HuffMaxCodeBits = 16

	// SupportThreshold is the default minimum relative frequency an item
	// must reach to become a bigram candidate.
	SupportThreshold = 0.00001

	// DefaultSampleRate is the default fraction of UUIDs sampled during the
	// gram-frequency passes.
	DefaultSampleRate = 0.1
)

// FieldNameChars is the set of bytes a field name may be composed of.
const FieldNameChars = "_-%" +
	"abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789"

// IsFieldNameChar reports whether b is a legal field-name byte.
func IsFieldNameChar(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '_' || b == '-' || b == '%':
		return true
	default:
		return false
	}
}

// OutputFormat selects the directory or single-file package layout produced
// by a finalized builder.
type OutputFormat uint8

const (
	// OutputDir writes the traditional directory-of-files layout.
	OutputDir OutputFormat = iota
	// OutputPackage writes a single tar-like archive, see §4.6/§6.
	OutputPackage
)

func (f OutputFormat) String() string {
	switch f {
	case OutputDir:
		return "dir"
	case OutputPackage:
		return "package"
	default:
		return "unknown"
	}
}
