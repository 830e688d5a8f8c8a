package section

import (
	"fmt"
	"unsafe"

	"github.com/neurokit/spikekit/endian"
	"github.com/neurokit/spikekit/errs"
)

// UnitIndexEntry records one unit's location in the persisted collection.
// It is a fixed size of 24 bytes and uses delta offset encoding for the
// times payload position.
//
// Delta Offset Encoding:
//   - First unit: stores the absolute offset from the times payload start
//     (typically 0)
//   - Subsequent units: stores delta = (current_offset - previous_offset)
//   - Decoding: absolute offsets are reconstructed by accumulating deltas
//
// Unit order in the index is the collection's uid order, so uid is implicit
// (entry i holds uid i+1) and is not stored.
type UnitIndexEntry struct {
	// CluID is the sorter-native cluster id, scoped to its electrode group.
	//
	// Offset: 0, Size: 8 bytes
	CluID int64

	// ShankID is the electrode-group id the unit was sorted on.
	//
	// Offset: 8, Size: 4 bytes
	ShankID uint32

	// Count is the number of spike timestamps for this unit.
	//
	// Offset: 12, Size: 4 bytes
	Count int

	// TimesOffset stores the delta offset (in bytes) from the previous
	// unit's times offset on disk.
	//
	// Offset: 16, Size: 4 bytes
	//
	// NOTE: After decoding, this field contains the ABSOLUTE offset into
	// the uncompressed times payload, not the delta.
	TimesOffset int

	// Bytes 20-23 are reserved and must be zero.
}

// Bytes returns the index entry as a byte slice using the specified endian
// engine.
//
// This method writes the on-disk delta form; it must only be used during
// encoding, when TimesOffset still holds a delta that fits in uint32.
func (e *UnitIndexEntry) Bytes(engine endian.EndianEngine) ([]byte, error) {
	if e.TimesOffset < 0 || int64(e.TimesOffset) > int64(MaxOffsetDelta) {
		return nil, fmt.Errorf("%w: times offset delta %d exceeds %d",
			errs.ErrInvalidIndexEntrySize, e.TimesOffset, uint32(MaxOffsetDelta))
	}

	var b [UnitIndexEntrySize]byte // stack allocation
	engine.PutUint64(b[0:8], *(*uint64)(unsafe.Pointer(&e.CluID)))
	engine.PutUint32(b[8:12], e.ShankID)
	engine.PutUint32(b[12:16], uint32(e.Count))       //nolint: gosec
	engine.PutUint32(b[16:20], uint32(e.TimesOffset)) //nolint: gosec

	return b[:], nil
}

// Parse parses the index entry from a byte slice, keeping the on-disk
// delta in TimesOffset. Callers accumulate deltas into absolute offsets.
//
// Parameters:
//   - data: Byte slice containing the entry (must be at least 24 bytes)
//   - engine: Endian engine matching the collection header
//
// Returns:
//   - error: ErrInvalidIndexEntrySize if data is too short
func (e *UnitIndexEntry) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) < UnitIndexEntrySize {
		return errs.ErrInvalidIndexEntrySize
	}

	cluID := engine.Uint64(data[0:8])
	e.CluID = *(*int64)(unsafe.Pointer(&cluID))
	e.ShankID = engine.Uint32(data[8:12])
	e.Count = int(engine.Uint32(data[12:16]))
	e.TimesOffset = int(engine.Uint32(data[16:20]))

	return nil
}

// ParseUnitIndex parses count consecutive index entries and reconstructs
// absolute times payload offsets from the stored deltas.
//
// Parameters:
//   - data: Byte slice positioned at the index section start
//   - count: Number of entries to parse
//   - engine: Endian engine matching the collection header
//
// Returns:
//   - []UnitIndexEntry: Entries with absolute TimesOffset values
//   - error: ErrInvalidIndexEntrySize if data is too short
func ParseUnitIndex(data []byte, count int, engine endian.EndianEngine) ([]UnitIndexEntry, error) {
	if count < 0 || len(data) < count*UnitIndexEntrySize {
		return nil, errs.ErrInvalidIndexEntrySize
	}

	entries := make([]UnitIndexEntry, count)
	offset := 0
	for i := range entries {
		if err := entries[i].Parse(data[i*UnitIndexEntrySize:], engine); err != nil {
			return nil, err
		}

		offset += entries[i].TimesOffset
		entries[i].TimesOffset = offset
	}

	return entries, nil
}
