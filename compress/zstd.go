package compress

// ZstdCompressor compresses with Zstandard frames.
//
// The default build uses github.com/klauspost/compress/zstd. Building with
// cgo and the gozstd tag switches to github.com/valyala/gozstd; both produce
// and accept standard frames, so data is portable between builds.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
