package format

type (
	// SorterFormat identifies one spike-sorting toolchain's output layout.
	SorterFormat string

	EncodingType    uint8
	CompressionType uint8
)

// Recognized sorter formats. Lookup through the adapter registry is
// case-insensitive; these constants are the canonical lowercase keys.
const (
	Phy        SorterFormat = "phy"
	KiloSort   SorterFormat = "kilosort"
	Neurosuite SorterFormat = "neurosuite"
	KlustaKwik SorterFormat = "klustakwik" // alias of Neurosuite
	IronClust  SorterFormat = "ironclust"
	ALF        SorterFormat = "alf"
	MClust     SorterFormat = "mclust"
	WaveClus   SorterFormat = "waveclus"
	NWB        SorterFormat = "nwb"
	AllenSDK   SorterFormat = "allensdk"
	Custom     SorterFormat = "custom"

	// Reserved formats: recognized but unbuilt, fail with ErrNotImplemented.
	KlustaViewa   SorterFormat = "klustaviewa"
	SpykingCircus SorterFormat = "spykingcircus"
)

const (
	TypeRaw   EncodingType = 0x1 // TypeRaw represents raw little-endian float64 samples.
	TypeDelta EncodingType = 0x2 // TypeDelta is reserved for delta-encoded timestamps.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (e EncodingType) String() string {
	switch e {
	case TypeRaw:
		return "Raw"
	case TypeDelta:
		return "Delta"
	default:
		return "Unknown"
	}
}

// IsValid reports whether e is a recognized times encoding.
func (e EncodingType) IsValid() bool {
	return e == TypeRaw || e == TypeDelta
}

// IsValid reports whether c is a recognized compression type.
func (c CompressionType) IsValid() bool {
	return c >= CompressionNone && c <= CompressionLZ4
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
