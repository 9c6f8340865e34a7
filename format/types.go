package format

type CompressionType uint8

// CompressionType selects the byte-stream compressor applied to the
// table-of-contents block of a package-form archive (§4.6 "Optional
// package"). Directory-form trails.data is never compressed on top of its
// own Huffman coding; compression here is strictly an archive-packaging
// concern, reusing the teacher's blob-compression codec selection for a
// new payload (a package's TOC bytes instead of a numeric/text blob).
const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
