package source

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neurokit/spikekit/errs"
)

func TestArrayVectorOrientation(t *testing.T) {
	// Column- and row-oriented vectors flatten identically; orientation is
	// fixed here, at the reader boundary, not downstream.
	column := &Array{Rows: 3, Cols: 1, Floats: []float64{0.1, 0.2, 0.3}}
	row := &Array{Rows: 1, Cols: 3, Floats: []float64{0.1, 0.2, 0.3}}

	cv, err := column.Float64s()
	require.NoError(t, err)
	rv, err := row.Float64s()
	require.NoError(t, err)
	require.Equal(t, cv, rv)
}

func TestArrayInt64s(t *testing.T) {
	a := IntVector([]int64{100, 101, 500})

	v, err := a.Int64s()
	require.NoError(t, err)
	require.Equal(t, []int64{100, 101, 500}, v)

	_, err = FloatVector([]float64{1.5}).Int64s()
	require.ErrorIs(t, err, errs.ErrArrayKind)
}

func TestArrayFloat64sWidensInts(t *testing.T) {
	v, err := IntVector([]int64{100, 200}).Float64s()
	require.NoError(t, err)
	require.Equal(t, []float64{100, 200}, v)
}

func TestArrayMatrixRejectsVectorAccessors(t *testing.T) {
	m := FloatMatrix(2, 2, []float64{1, 2, 3, 4})

	_, err := m.Float64s()
	require.ErrorIs(t, err, errs.ErrArrayShape)
	_, err = m.Int64s()
	require.ErrorIs(t, err, errs.ErrArrayShape)
}

func TestArrayColumnAndRow(t *testing.T) {
	// times_CSC-style table: column 0 cluster ids, column 1 seconds.
	m := FloatMatrix(3, 2, []float64{
		1, 0.10,
		1, 0.25,
		2, 0.50,
	})

	clusters, err := m.Column(0)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 1, 2}, clusters)

	times, err := m.Column(1)
	require.NoError(t, err)
	require.Equal(t, []float64{0.10, 0.25, 0.50}, times)

	row, err := m.Row(2)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 0.50}, row)

	_, err = m.Column(2)
	require.ErrorIs(t, err, errs.ErrArrayShape)
	_, err = m.Row(3)
	require.ErrorIs(t, err, errs.ErrArrayShape)
}

func TestSessionMetadataRequire(t *testing.T) {
	meta := &SessionMetadata{
		SamplingRate:    20000,
		ChannelCount:    32,
		ElectrodeGroups: [][]int{{0, 1, 2, 3}, {4, 5, 6, 7}},
	}

	require.NoError(t, meta.Require(FieldSamplingRate, FieldChannelCount, FieldElectrodeGroups))

	err := meta.Require(FieldLSB)
	require.ErrorIs(t, err, errs.ErrMissingMetadata)
	require.Contains(t, err.Error(), FieldLSB)

	var nilMeta *SessionMetadata
	require.ErrorIs(t, nilMeta.Require(FieldSamplingRate), errs.ErrMissingMetadata)
}

func TestGroupChannelOffset(t *testing.T) {
	meta := &SessionMetadata{
		ElectrodeGroups: [][]int{{0, 1, 2, 3}, {4, 5, 6, 7}, {8, 9}},
	}

	require.Equal(t, 0, meta.GroupChannelOffset(0))
	require.Equal(t, 4, meta.GroupChannelOffset(1))
	require.Equal(t, 8, meta.GroupChannelOffset(2))
}
