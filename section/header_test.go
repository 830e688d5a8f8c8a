package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neurokit/spikekit/errs"
	"github.com/neurokit/spikekit/format"
)

func TestCollectionHeaderRoundTrip(t *testing.T) {
	h := NewCollectionHeader(1, 3, 0)
	h.SamplingRate = 20000
	h.UnitCount = 42
	h.UnitCountOrig = 64
	h.Flag.SetOrigCount(true)
	h.IndexOffset = HeaderSize + 8
	h.TimesPayloadOffset = h.IndexOffset + 42*UnitIndexEntrySize
	h.MetaPayloadOffset = h.TimesPayloadOffset + 1000
	h.TimesChecksum = 0xDEADBEEFCAFEF00D
	h.MetaChecksum = 0x0123456789ABCDEF

	data := h.Bytes()
	require.Len(t, data, HeaderSize)

	parsed, err := ParseCollectionHeader(data)
	require.NoError(t, err)

	require.Equal(t, h.SamplingRate, parsed.SamplingRate)
	require.Equal(t, h.UnitCount, parsed.UnitCount)
	require.Equal(t, h.UnitCountOrig, parsed.UnitCountOrig)
	require.True(t, parsed.Flag.HasOrigCount())
	require.Equal(t, h.IndexOffset, parsed.IndexOffset)
	require.Equal(t, h.TimesPayloadOffset, parsed.TimesPayloadOffset)
	require.Equal(t, h.MetaPayloadOffset, parsed.MetaPayloadOffset)
	require.Equal(t, h.TimesChecksum, parsed.TimesChecksum)
	require.Equal(t, h.MetaChecksum, parsed.MetaChecksum)
	require.Equal(t, h.SavedAt, parsed.SavedAt)

	major, minor, patch := parsed.Version()
	require.Equal(t, 1, major)
	require.Equal(t, 3, minor)
	require.Equal(t, 0, patch)
}

func TestCollectionHeaderBigEndian(t *testing.T) {
	h := NewCollectionHeader(1, 0, 0)
	h.Flag.WithBigEndian()
	h.SamplingRate = 30000
	h.UnitCount = 7

	parsed, err := ParseCollectionHeader(h.Bytes())
	require.NoError(t, err)
	require.True(t, parsed.Flag.IsBigEndian())
	require.Equal(t, 30000.0, parsed.SamplingRate)
	require.Equal(t, uint32(7), parsed.UnitCount)
}

func TestCollectionHeaderInvalidSize(t *testing.T) {
	_, err := ParseCollectionHeader(make([]byte, HeaderSize-1))
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)

	var h CollectionHeader
	err = h.Parse(make([]byte, HeaderSize+1))
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
}

func TestCollectionHeaderInvalidMagic(t *testing.T) {
	h := NewCollectionHeader(1, 0, 0)
	data := h.Bytes()
	data[1] ^= 0xF0 // corrupt magic bits

	_, err := ParseCollectionHeader(data)
	require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)
}

func TestCollectionFlagDefaults(t *testing.T) {
	flag := NewCollectionFlag()

	require.NoError(t, flag.Validate())
	require.True(t, flag.IsLittleEndian())
	require.False(t, flag.HasOrigCount())
	require.Equal(t, format.TypeRaw, flag.TimesEncoding())
	require.Equal(t, format.CompressionZstd, flag.TimesCompression())
	require.Equal(t, format.CompressionZstd, flag.MetaCompression())
}

func TestCollectionFlagCompressionAccessors(t *testing.T) {
	flag := NewCollectionFlag()

	flag.SetTimesCompression(format.CompressionLZ4)
	flag.SetMetaCompression(format.CompressionS2)

	require.Equal(t, format.CompressionLZ4, flag.TimesCompression())
	require.Equal(t, format.CompressionS2, flag.MetaCompression())
	require.NoError(t, flag.Validate())
}

func TestCollectionFlagInvalidCompression(t *testing.T) {
	flag := NewCollectionFlag()
	flag.CompressionType = 0x0F // invalid times compression enum

	require.ErrorIs(t, flag.Validate(), errs.ErrInvalidHeaderFlags)
}

func TestCollectionFlagReservedBits(t *testing.T) {
	flag := NewCollectionFlag()
	flag.Options |= 0x0004

	require.ErrorIs(t, flag.Validate(), errs.ErrInvalidHeaderFlags)
}
