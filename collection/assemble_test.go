package collection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neurokit/spikekit/errs"
)

func testUnits() []Unit {
	return []Unit{
		{CluID: 2, ShankID: 1, Times: []float64{0.005, 0.025, 1.5}},
		{CluID: 3, ShankID: 1, Times: []float64{0.05}},
		{CluID: 2, ShankID: 2, Times: []float64{0.1, 0.2}},
	}
}

func TestAssembleAssignsDenseUIDs(t *testing.T) {
	col, err := Assemble("rec01", 20000, testUnits())
	require.NoError(t, err)

	require.Equal(t, "rec01", col.Basename)
	require.Equal(t, 20000.0, col.SR)
	require.Equal(t, 3, col.Numcells())

	for i, u := range col.Units {
		require.Equal(t, i+1, u.UID)
		require.Equal(t, len(u.Times), u.Total)
	}
}

func TestAssemblePreservesGroupOrder(t *testing.T) {
	col, err := Assemble("rec01", 20000, testUnits())
	require.NoError(t, err)

	require.Equal(t, []int{1, 1, 2}, []int{
		col.Units[0].ShankID, col.Units[1].ShankID, col.Units[2].ShankID,
	})
}

func TestAssembleEmpty(t *testing.T) {
	_, err := Assemble("rec01", 20000, nil)
	require.ErrorIs(t, err, errs.ErrEmptyCollection)
}

func TestAssembleRejectsUnsortedTimes(t *testing.T) {
	units := []Unit{
		{CluID: 2, ShankID: 1, Times: []float64{0.2, 0.1}},
	}

	_, err := Assemble("rec01", 20000, units)
	require.ErrorIs(t, err, errs.ErrUnsortedTimes)
}

func TestAssembleRejectsEqualTimes(t *testing.T) {
	units := []Unit{
		{CluID: 2, ShankID: 1, Times: []float64{0.1, 0.1}},
	}

	_, err := Assemble("rec01", 20000, units)
	require.ErrorIs(t, err, errs.ErrUnsortedTimes)
}

func TestUnitByUID(t *testing.T) {
	col, err := Assemble("rec01", 20000, testUnits())
	require.NoError(t, err)

	u := col.UnitByUID(2)
	require.NotNil(t, u)
	require.Equal(t, int64(3), u.CluID)

	require.Nil(t, col.UnitByUID(99))
}

func TestSetMaxWaveformChKeepsPairing(t *testing.T) {
	var u Unit
	u.SetMaxWaveformCh(12)

	require.True(t, u.HasMaxWaveformCh)
	require.Equal(t, 12, u.MaxWaveformCh)
	require.Equal(t, u.MaxWaveformCh1-1, u.MaxWaveformCh)
}
