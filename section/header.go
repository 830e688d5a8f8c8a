package section

import (
	"math"
	"time"
	"unsafe"

	"github.com/neurokit/spikekit/errs"
)

// CollectionHeader is the fixed-size header at the start of a persisted
// spike collection.
type CollectionHeader struct {
	// VersionMajor, VersionMinor, VersionPatch hold the semantic version of
	// the pipeline that wrote the collection. The cache manager compares it
	// against the minimum supported version to decide reuse vs rebuild.
	VersionMajor uint8 // byte offset 4
	VersionMinor uint8 // byte offset 5
	VersionPatch uint8 // byte offset 6

	// SamplingRate is the recording sampling rate in Hz.
	SamplingRate float64 // byte offset 8-15
	// UnitCount is the number of units stored in the collection (numcells).
	UnitCount uint32 // byte offset 16-19
	// UnitCountOrig is the unit count before the first filter application
	// (numcells_orig). Only meaningful when Flag.HasOrigCount() is true.
	UnitCountOrig uint32 // byte offset 20-23
	// IndexOffset is the byte offset to the start of the unit index section.
	IndexOffset uint32 // byte offset 24-27
	// TimesPayloadOffset is the byte offset to the start of the compressed
	// times payload.
	TimesPayloadOffset uint32 // byte offset 28-31
	// MetaPayloadOffset is the byte offset to the start of the compressed
	// meta payload.
	MetaPayloadOffset uint32 // byte offset 32-35
	// TimesChecksum is the xxHash64 of the compressed times payload.
	TimesChecksum uint64 // byte offset 36-43
	// MetaChecksum is the xxHash64 of the compressed meta payload.
	MetaChecksum uint64 // byte offset 44-51
	// SavedAt is the save time as a unix timestamp in microseconds.
	SavedAt int64 // byte offset 52-59

	// Flag is a packed field for flags and the magic number.
	Flag CollectionFlag // byte offset 0-3
}

// NewCollectionHeader creates a new CollectionHeader with the given
// pipeline version. Counts and offsets are set when the encoder finishes.
func NewCollectionHeader(major, minor, patch uint8) *CollectionHeader {
	return &CollectionHeader{
		VersionMajor: major,
		VersionMinor: minor,
		VersionPatch: patch,
		Flag:         NewCollectionFlag(),
		IndexOffset:  HeaderSize,
		SavedAt:      time.Now().UnixMicro(),
	}
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly 64 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not 64 bytes, or flag
//     validation errors
func (h *CollectionHeader) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// The Options field itself is always little-endian so the endianness
	// bit can be read before the engine is known.
	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.EncodingType = data[2]
	h.Flag.CompressionType = data[3]

	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.Flag.GetEndianEngine()

	h.VersionMajor = data[4]
	h.VersionMinor = data[5]
	h.VersionPatch = data[6]

	h.SamplingRate = math.Float64frombits(engine.Uint64(data[8:16]))
	h.UnitCount = engine.Uint32(data[16:20])
	h.UnitCountOrig = engine.Uint32(data[20:24])
	h.IndexOffset = engine.Uint32(data[24:28])
	h.TimesPayloadOffset = engine.Uint32(data[28:32])
	h.MetaPayloadOffset = engine.Uint32(data[32:36])
	h.TimesChecksum = engine.Uint64(data[36:44])
	h.MetaChecksum = engine.Uint64(data[44:52])

	savedAt := engine.Uint64(data[52:60])
	h.SavedAt = *(*int64)(unsafe.Pointer(&savedAt))

	return nil
}

// Bytes serializes the CollectionHeader into a byte slice.
func (h *CollectionHeader) Bytes() []byte {
	b := make([]byte, HeaderSize)

	engine := h.Flag.GetEndianEngine()

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.EncodingType
	b[3] = h.Flag.CompressionType
	b[4] = h.VersionMajor
	b[5] = h.VersionMinor
	b[6] = h.VersionPatch

	engine.PutUint64(b[8:16], math.Float64bits(h.SamplingRate))
	engine.PutUint32(b[16:20], h.UnitCount)
	engine.PutUint32(b[20:24], h.UnitCountOrig)
	engine.PutUint32(b[24:28], h.IndexOffset)
	engine.PutUint32(b[28:32], h.TimesPayloadOffset)
	engine.PutUint32(b[32:36], h.MetaPayloadOffset)
	engine.PutUint64(b[36:44], h.TimesChecksum)
	engine.PutUint64(b[44:52], h.MetaChecksum)
	// Bitwise conversion, timestamps are stored as-is in binary
	engine.PutUint64(b[52:60], *(*uint64)(unsafe.Pointer(&h.SavedAt)))

	return b
}

// SavedAtTime returns the save time as a time.Time object.
func (h *CollectionHeader) SavedAtTime() time.Time {
	return time.UnixMicro(h.SavedAt)
}

// Version returns the writer version as a "major.minor.patch" triplet.
func (h *CollectionHeader) Version() (major, minor, patch int) {
	return int(h.VersionMajor), int(h.VersionMinor), int(h.VersionPatch)
}

// ParseCollectionHeader parses a CollectionHeader from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be at least 64 bytes)
//
// Returns:
//   - CollectionHeader: Parsed header struct
//   - error: ErrInvalidHeaderSize or flag validation errors
func ParseCollectionHeader(data []byte) (CollectionHeader, error) {
	if len(data) < HeaderSize {
		return CollectionHeader{}, errs.ErrInvalidHeaderSize
	}

	h := CollectionHeader{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return CollectionHeader{}, err
	}

	return h, nil
}
