// Package compress provides the compression codecs used by the persisted
// spike-collection format.
//
// Two payload sections go through a codec before hitting disk: the spike
// times payload (raw float64 seconds, long runs of slowly increasing values
// that compress extremely well) and the unit metadata payload. Zstd is the
// default; S2 and LZ4 trade ratio for speed, and the no-op codec exists for
// debugging and baseline measurements.
package compress
