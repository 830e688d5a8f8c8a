package section

import (
	"github.com/neurokit/spikekit/endian"
	"github.com/neurokit/spikekit/errs"
	"github.com/neurokit/spikekit/format"
)

// CollectionFlag represents the packed flag field of the collection header.
type CollectionFlag struct {
	// Options is a packed field for various options.
	// Bit 0 is the numcells_orig flag: 1 means the original unit count was
	// captured by a filter application and is stored in the header.
	// Bit 1 is the endianness flag, 0 means little-endian, 1 means big-endian.
	// Bits 2-3 are reserved for future use, must be set to 0.
	// Bits 4-15 are the magic number identifying the collection format:
	//   - 0xCE10: spike collection format v1
	Options uint16

	// EncodingType indicates the encoding of the times payload.
	// Bits 0-3 for times encoding, bits 4-7 reserved.
	EncodingType uint8
	// CompressionType indicates the compression used per payload.
	// Bits 0-3 for the times payload, bits 4-7 for the meta payload.
	CompressionType uint8
}

var (
	validTimesEncodings = map[uint8]struct{}{
		uint8(format.TypeRaw): {},
	}

	validCompressions = map[uint8]struct{}{
		uint8(format.CompressionNone): {},
		uint8(format.CompressionZstd): {},
		uint8(format.CompressionS2):   {},
		uint8(format.CompressionLZ4):  {},
	}
)

// NewCollectionFlag creates a new CollectionFlag with default settings:
// little-endian, raw times encoding, zstd compression for both payloads.
func NewCollectionFlag() CollectionFlag {
	flag := CollectionFlag{
		Options:         MagicCollectionV1Opt,
		EncodingType:    TimesEncodingRaw,
		CompressionType: TimesCompressionZstd | MetaCompressionZstd,
	}
	flag.WithLittleEndian()

	return flag
}

// HasOrigCount returns whether the original unit count is recorded.
func (f CollectionFlag) HasOrigCount() bool {
	return (f.Options & OrigCountMask) != 0
}

// SetOrigCount marks whether the original unit count is recorded.
func (f *CollectionFlag) SetOrigCount(set bool) {
	if set {
		f.Options |= OrigCountMask
	} else {
		f.Options &^= OrigCountMask
	}
}

// IsLittleEndian returns whether the data is little-endian.
func (f CollectionFlag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// IsBigEndian returns whether the data is big-endian.
func (f CollectionFlag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithLittleEndian sets little-endian byte order.
func (f *CollectionFlag) WithLittleEndian() {
	f.Options &= ^uint16(EndiannessMask)
}

// WithBigEndian sets big-endian byte order.
func (f *CollectionFlag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetMagicNumber returns the magic number from the Options field.
func (f CollectionFlag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// GetEndianEngine returns the endian engine matching the endianness flag.
func (f CollectionFlag) GetEndianEngine() endian.EndianEngine {
	if f.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// TimesEncoding returns the encoding of the times payload.
func (f CollectionFlag) TimesEncoding() format.EncodingType {
	return format.EncodingType(f.EncodingType & 0x0F)
}

// SetTimesEncoding sets the encoding of the times payload.
func (f *CollectionFlag) SetTimesEncoding(enc format.EncodingType) {
	f.EncodingType = (f.EncodingType & 0xF0) | (uint8(enc) & 0x0F)
}

// TimesCompression returns the compression type of the times payload.
func (f CollectionFlag) TimesCompression() format.CompressionType {
	return format.CompressionType(f.CompressionType & 0x0F)
}

// SetTimesCompression sets the compression type of the times payload.
func (f *CollectionFlag) SetTimesCompression(comp format.CompressionType) {
	f.CompressionType = (f.CompressionType & 0xF0) | (uint8(comp) & 0x0F)
}

// MetaCompression returns the compression type of the meta payload.
func (f CollectionFlag) MetaCompression() format.CompressionType {
	return format.CompressionType(f.CompressionType >> 4)
}

// SetMetaCompression sets the compression type of the meta payload.
func (f *CollectionFlag) SetMetaCompression(comp format.CompressionType) {
	f.CompressionType = (f.CompressionType & 0x0F) | (uint8(comp) << 4)
}

// Validate checks the magic number, reserved bits and the encoding and
// compression enums.
func (f CollectionFlag) Validate() error {
	if f.GetMagicNumber() != MagicCollectionV1Opt {
		return errs.ErrInvalidMagicNumber
	}

	if f.Options&ReservedBitsMask != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	if _, ok := validTimesEncodings[f.EncodingType&0x0F]; !ok {
		return errs.ErrInvalidHeaderFlags
	}

	if _, ok := validCompressions[f.CompressionType&0x0F]; !ok {
		return errs.ErrInvalidHeaderFlags
	}

	if _, ok := validCompressions[f.CompressionType>>4]; !ok {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}
