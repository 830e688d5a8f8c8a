package compress

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neurokit/spikekit/format"
)

// spikeTimesPayload builds a payload shaped like a real times section:
// raw little-endian float64 seconds, slowly increasing.
func spikeTimesPayload(n int) []byte {
	buf := make([]byte, 0, n*8)
	t := 0.0
	for i := 0; i < n; i++ {
		t += 0.0123
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(t))
	}

	return buf
}

func TestCodecRoundTrip(t *testing.T) {
	payload := spikeTimesPayload(2048)

	types := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}

	for _, ct := range types {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, payload, restored)
		})
	}
}

func TestCodecEmptyInput(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(nil)
			require.NoError(t, err)
			require.Nil(t, compressed)

			restored, err := codec.Decompress(nil)
			require.NoError(t, err)
			require.Nil(t, restored)
		})
	}
}

func TestCodecCompresses(t *testing.T) {
	// Delta-regular times payloads should shrink substantially.
	payload := spikeTimesPayload(8192)

	codec, err := GetCodec(format.CompressionZstd)
	require.NoError(t, err)

	compressed, err := codec.Compress(payload)
	require.NoError(t, err)
	require.Less(t, len(compressed), len(payload))
}

func TestCreateCodec(t *testing.T) {
	codec, err := CreateCodec(format.CompressionLZ4, "times payload")
	require.NoError(t, err)
	require.NotNil(t, codec)

	_, err = CreateCodec(format.CompressionType(0xFF), "times payload")
	require.Error(t, err)
}

func TestGetCodecUnknown(t *testing.T) {
	_, err := GetCodec(format.CompressionType(0x7F))
	require.Error(t, err)
}
