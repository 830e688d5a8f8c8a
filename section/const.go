package section

import (
	"math"

	"github.com/neurokit/spikekit/format"
)

const (
	// Bit masks for the packed Options field
	OrigCountMask    = 0x0001 // Mask for numcells_orig-set bit (bit 0)
	EndiannessMask   = 0x0002 // Mask for endianness bit (bit 1)
	ReservedBitsMask = 0x000C // Mask for reserved bits (bits 2-3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicCollectionV1Opt is the version 1 magic number for the persisted
	// spike-collection format (bits 4-15 of the Options field).
	MagicCollectionV1Opt = 0xCE10

	// Times encodings (EncodingType field, bits 0-3)
	TimesEncodingRaw   = uint8(format.TypeRaw)   // raw float64 seconds
	TimesEncodingDelta = uint8(format.TypeDelta) // reserved for future use

	// Times compression (CompressionType field, bits 0-3)
	TimesCompressionNone = uint8(format.CompressionNone)
	TimesCompressionZstd = uint8(format.CompressionZstd)
	TimesCompressionS2   = uint8(format.CompressionS2)
	TimesCompressionLZ4  = uint8(format.CompressionLZ4)

	// Meta compression (CompressionType field, bits 4-7)
	MetaCompressionNone = uint8(format.CompressionNone) << 4
	MetaCompressionZstd = uint8(format.CompressionZstd) << 4
	MetaCompressionS2   = uint8(format.CompressionS2) << 4
	MetaCompressionLZ4  = uint8(format.CompressionLZ4) << 4
)

// Offsets and section sizes in the persisted collection file
const (
	HeaderSize         = 64             // fixed header size in bytes
	UnitIndexEntrySize = 24             // fixed index entry size in bytes
	MaxUnitCount       = math.MaxUint32 // maximum number of units per collection
	MaxOffsetDelta     = math.MaxUint32 // maximum per-unit times payload delta in bytes
)
