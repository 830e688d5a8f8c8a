package adapters

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neurokit/spikekit/errs"
)

func TestCustomLoad(t *testing.T) {
	adapter, err := Lookup("custom")
	require.NoError(t, err)

	units, err := adapter.Load(Params{
		RawClusters: [][]float64{
			{0.1, 0.2},
			{1.5},
		},
	})
	require.NoError(t, err)
	require.Len(t, units, 2)

	require.Equal(t, int64(1), units[0].CluID)
	require.Equal(t, []float64{0.1, 0.2}, units[0].Times)

	require.Equal(t, int64(2), units[1].CluID)
	require.Equal(t, []float64{1.5}, units[1].Times)
}

func TestCustomDeduplicates(t *testing.T) {
	adapter, err := Lookup("custom")
	require.NoError(t, err)

	units, err := adapter.Load(Params{
		RawClusters: [][]float64{{0.100, 0.1002, 0.5}},
	})
	require.NoError(t, err)
	require.Equal(t, []float64{0.100, 0.5}, units[0].Times)
	require.Equal(t, []int{0, 2}, units[0].SourceIndex)
}

func TestCustomWithoutRawClusters(t *testing.T) {
	adapter, err := Lookup("custom")
	require.NoError(t, err)

	_, err = adapter.Load(Params{})
	require.ErrorIs(t, err, errs.ErrMissingMetadata)
	require.ErrorContains(t, err, "rawClusters")
}
