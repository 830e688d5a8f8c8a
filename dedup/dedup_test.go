package dedup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSamplesMergesWithinTolerance(t *testing.T) {
	// 20000 Hz, 0.5 ms tolerance = 10 samples.
	kept, srcIdx := Samples([]int64{100, 101, 500, 1000}, 10)

	require.Equal(t, []int64{100, 500, 1000}, kept)
	require.Equal(t, []int{0, 2, 3}, srcIdx)
}

func TestSamplesIdempotent(t *testing.T) {
	once, _ := Samples([]int64{100, 101, 105, 500, 505, 1000}, 10)
	twice, srcIdx := Samples(once, 10)

	require.Equal(t, once, twice)
	// Re-running on clean input is the identity mapping.
	for i, idx := range srcIdx {
		require.Equal(t, i, idx)
	}
}

func TestSamplesSortsFirst(t *testing.T) {
	kept, srcIdx := Samples([]int64{1000, 100, 500, 101}, 10)

	require.Equal(t, []int64{100, 500, 1000}, kept)
	// Source indices point into the original, unsorted input.
	require.Equal(t, []int{1, 2, 0}, srcIdx)
}

func TestSamplesStrictlyIncreasing(t *testing.T) {
	kept, _ := Samples([]int64{100, 105, 112, 119, 200}, 10)

	for i := 1; i < len(kept); i++ {
		require.GreaterOrEqual(t, kept[i]-kept[i-1], int64(10))
	}
}

func TestSamplesExactDuplicates(t *testing.T) {
	kept, _ := Samples([]int64{100, 100, 100, 200}, 0)
	require.Equal(t, []int64{100, 200}, kept)
}

func TestSamplesEmpty(t *testing.T) {
	kept, srcIdx := Samples(nil, 10)
	require.Nil(t, kept)
	require.Nil(t, srcIdx)
}

func TestSampleTolerance(t *testing.T) {
	require.Equal(t, int64(10), SampleTolerance(20000))
	require.Equal(t, int64(15), SampleTolerance(30000))
}

func TestSecondsMergesWithinTolerance(t *testing.T) {
	kept, srcIdx := Seconds([]float64{0.0050, 0.00505, 0.0250, 0.0500}, DefaultToleranceSeconds)

	require.Equal(t, []float64{0.0050, 0.0250, 0.0500}, kept)
	require.Equal(t, []int{0, 2, 3}, srcIdx)
}

func TestSecondsIdempotent(t *testing.T) {
	once, _ := Seconds([]float64{0.1, 0.1001, 0.2, 0.2004, 1.5}, DefaultToleranceSeconds)
	twice, _ := Seconds(once, DefaultToleranceSeconds)
	require.Equal(t, once, twice)
}

func TestAlign(t *testing.T) {
	samples := []int64{100, 101, 500, 1000}
	amps := []float64{10.5, 11.0, 42.0, 7.25}

	kept, srcIdx := Samples(samples, 10)
	aligned := Align(amps, srcIdx)

	require.Equal(t, []int64{100, 500, 1000}, kept)
	require.Equal(t, []float64{10.5, 42.0, 7.25}, aligned)
}

func TestAlignNil(t *testing.T) {
	_, srcIdx := Samples([]int64{100, 500}, 10)
	require.Nil(t, Align(nil, srcIdx))
}

func TestAlignLengthMismatch(t *testing.T) {
	// A truncated amplitude array cannot be realigned; drop the field
	// rather than persisting a misaligned one.
	_, srcIdx := Samples([]int64{100, 500, 1000}, 10)
	require.Nil(t, Align([]float64{1.0}, srcIdx))
}
