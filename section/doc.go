// Package section defines the fixed-size on-disk structures of the
// persisted spike-collection format: the collection header, its packed
// flag word, and the per-unit index entries.
//
// File layout:
//
//	+--------------------+  offset 0
//	| CollectionHeader   |  64 bytes, fixed
//	+--------------------+
//	| basename varstring |  1 + len(basename) bytes
//	+--------------------+  IndexOffset
//	| UnitIndexEntry × N |  24 bytes each
//	+--------------------+  TimesPayloadOffset
//	| times payload      |  compressed raw float64 runs
//	+--------------------+  MetaPayloadOffset
//	| meta payload       |  compressed JSON (optional unit fields,
//	+--------------------+  provenance block)
//
// All offsets in the header are absolute file offsets. Index entries use
// delta offsets into the uncompressed times payload.
package section
