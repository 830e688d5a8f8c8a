// Package encoding implements the low-level payload codecs for the
// persisted spike-collection format.
//
// Two codecs live here:
//
//   - TimesRaw: spike times as raw IEEE 754 float64 values in a configurable
//     byte order. Raw keeps load/save bit-exact; compression of the payload
//     happens one layer up in the store.
//   - VarString: the collection basename as a length-prefixed string with
//     a uint8 length prefix.
//
// Encoders append to pooled byte buffers; callers own the returned slices
// only until Finish releases the buffer.
package encoding
