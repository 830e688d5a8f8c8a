// Package errs defines the sentinel errors shared across spikekit packages.
//
// Errors are matched with errors.Is and carry context through fmt.Errorf
// wrapping, e.g.:
//
//	return fmt.Errorf("%w: spike_times.npy", errs.ErrMissingSourceFile)
package errs

import "errors"

// Import-level errors. These abort an import; no partial collection is
// persisted or returned when one of them occurs (except the recoverable
// conditions noted below).
var (
	// ErrUnsupportedFormat indicates the requested format key is not known
	// to the adapter registry.
	ErrUnsupportedFormat = errors.New("unsupported sorting format")

	// ErrNotImplemented indicates the format key is recognized and reserved
	// but no adapter has been built for it. Raised before any file access.
	ErrNotImplemented = errors.New("sorting format not implemented")

	// ErrMissingSourceFile indicates a required adapter input file is absent,
	// after exhausting any documented fallback chain.
	ErrMissingSourceFile = errors.New("missing source file")

	// ErrMissingMetadata indicates the resolved session metadata lacks a
	// field the selected adapter requires.
	ErrMissingMetadata = errors.New("missing session metadata")

	// ErrFilterFieldMissing indicates a filter criterion names a field the
	// collection does not carry. Recoverable: the criterion is skipped and
	// a warning is logged.
	ErrFilterFieldMissing = errors.New("filter field missing from collection")

	// ErrEmptyCollection indicates an adapter produced no units.
	ErrEmptyCollection = errors.New("no units produced")

	// ErrUnsortedTimes indicates a unit's spike times are not strictly
	// increasing after deduplication.
	ErrUnsortedTimes = errors.New("spike times not strictly increasing")
)

// Typed-array errors returned by source.Array accessors.
var (
	// ErrArrayKind indicates an accessor was called on an array of a
	// different element kind.
	ErrArrayKind = errors.New("array element kind mismatch")

	// ErrArrayShape indicates an array does not have the expected shape,
	// e.g. a matrix where a vector is required.
	ErrArrayShape = errors.New("unexpected array shape")
)

// Persisted-collection errors returned by the store codec.
var (
	ErrInvalidHeaderSize     = errors.New("invalid collection header size")
	ErrInvalidMagicNumber    = errors.New("invalid magic number")
	ErrInvalidHeaderFlags    = errors.New("invalid collection header flags")
	ErrInvalidIndexEntrySize = errors.New("invalid unit index entry size")
	ErrInvalidUnitCount      = errors.New("invalid unit count")
	ErrChecksumMismatch      = errors.New("payload checksum mismatch")

	// ErrUnsupportedVersion indicates the persisted collection was written
	// by an incompatible (newer) pipeline version.
	ErrUnsupportedVersion = errors.New("unsupported collection version")

	// ErrStaleCollection indicates the persisted collection predates the
	// minimum supported pipeline version. Internal signal: callers react by
	// rebuilding, never by surfacing the error.
	ErrStaleCollection = errors.New("stale persisted collection")

	// ErrCollectionNotFound indicates no persisted collection exists for
	// the requested basename.
	ErrCollectionNotFound = errors.New("persisted collection not found")
)
