// Package compress provides the compression codecs used to embed a database
// blob after a GFF payload.
//
// Every codec implements Codec:
//
//	type Codec interface {
//	    Compress(data []byte) ([]byte, error)
//	    Decompress(data []byte) ([]byte, error)
//	}
//
// Supported algorithms, selected by format.CompressionType:
//   - None: data is passed through unchanged
//   - Zlib: RFC 1950 stream at the default level, the format older tools wrote
//   - Zstd: best ratio; pure Go by default, cgo gozstd with the gozstd build tag
//   - S2: fast, Snappy compatible block format
//   - LZ4: fastest decompression, raw block format
//
// All codecs are safe for concurrent use. Encoders and decoders that are
// expensive to create are pooled.
//
//	codec, err := compress.GetCodec(format.CompressionZlib)
//	packed, err := codec.Compress(db)
//	db, err = codec.Decompress(packed)
package compress
