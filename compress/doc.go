// Package compress provides compression and decompression codecs for traildb package archive blocks.
//
// A package archive (§4.6) stores its trail data bit-packed by the Huffman
// codebook and its other components (lexicons, uuids, toc) as written; this
// package compresses the table of contents that indexes them, pluggable per format.CompressionType so a
// store can trade build-time CPU for archive size. Supported algorithms:
//   - None: no compression (fastest, largest)
//   - Zstd: best compression ratio, moderate speed
//   - S2: balanced compression and speed
//   - LZ4: fastest decompression, moderate compression
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	compressed, err := codec.Compress(rawTOC)
//	original, err := codec.Decompress(compressed)
//
// # Thread Safety
//
// All codec implementations are stateless and safe to share across
// goroutines.
//
// # Advanced Usage
//
// For custom compression needs, implement the Compressor/Decompressor
// interfaces and use the codec directly; CreateCodec and GetCodec only know
// the four built-in format.CompressionType values and offer no registration:
//
//	type MyCodec struct{}
//
//	func (c *MyCodec) Compress(data []byte) ([]byte, error) {
//	    // Custom compression logic
//	    return compressedData, nil
//	}
//
//	func (c *MyCodec) Decompress(data []byte) ([]byte, error) {
//	    // Custom decompression logic
//	    return originalData, nil
//	}
package compress
