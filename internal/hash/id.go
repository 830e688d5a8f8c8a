package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
//
// It is used to derive a stable collection identity from the
// (basepath, basename) pair.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Checksum computes the xxHash64 of the given payload bytes.
//
// The store writes a checksum per payload section and verifies it on load;
// a mismatch fails the load before any unit is materialized.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
