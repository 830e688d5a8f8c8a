package compress

// ZstdCompressor provides Zstandard compression for persisted spike
// collections. It is the default codec: spike time payloads are long,
// slowly-varying float sequences that zstd compresses well, and a
// collection is typically written once and read many times.
//
// Two implementations exist behind build tags: a pure-Go one
// (klauspost/compress, the default) and a cgo one (valyala/gozstd,
// enabled with -tags cgo_zstd) for hosts where the C library's speed
// matters.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
