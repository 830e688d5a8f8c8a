// Package dedup enforces timestamp uniqueness within one unit's spike
// train.
//
// Spike sorters occasionally emit the same physical spike twice with
// timestamps one or two samples apart (template overlap, merge artifacts).
// Deduplication sorts the timestamps and drops every timestamp closer than
// the tolerance to its predecessor, keeping the first occurrence. The
// operation is a fixed point: running it on its own output changes
// nothing.
package dedup

import "sort"

// DefaultToleranceSeconds is the deduplication window: two spikes of the
// same unit closer than 0.5 ms are considered one detection.
const DefaultToleranceSeconds = 0.0005

// SampleTolerance converts the default tolerance to sample ticks at the
// given sampling rate.
func SampleTolerance(samplingRate float64) int64 {
	return int64(samplingRate * DefaultToleranceSeconds)
}

// Samples deduplicates integer sample-index timestamps for one unit.
//
// The input is sorted ascending first; it is not modified. A timestamp is
// dropped when it lies within tolerance of its immediate predecessor in
// the sorted order (the predecessor survives, duplicates merge into it).
//
// Parameters:
//   - samples: Sample-index timestamps, any order
//   - tolerance: Merge window in sample ticks
//
// Returns:
//   - []int64: Surviving timestamps, strictly increasing, gaps >= tolerance
//   - []int: For each survivor, its index into the original input, so
//     dependent per-spike fields (amplitudes) can stay aligned
func Samples(samples []int64, tolerance int64) ([]int64, []int) {
	if len(samples) == 0 {
		return nil, nil
	}

	order := sortedOrder(len(samples), func(i, j int) bool {
		return samples[i] < samples[j]
	})

	kept := make([]int64, 0, len(samples))
	srcIdx := make([]int, 0, len(samples))

	prev := samples[order[0]]
	kept = append(kept, prev)
	srcIdx = append(srcIdx, order[0])

	for _, oi := range order[1:] {
		cur := samples[oi]
		if cur-prev < tolerance || cur == prev {
			// Within the merge window of its predecessor: drop.
			prev = cur
			continue
		}

		kept = append(kept, cur)
		srcIdx = append(srcIdx, oi)
		prev = cur
	}

	return kept, srcIdx
}

// Seconds deduplicates floating-point timestamps in seconds with the same
// semantics as Samples.
func Seconds(times []float64, tolerance float64) ([]float64, []int) {
	if len(times) == 0 {
		return nil, nil
	}

	order := sortedOrder(len(times), func(i, j int) bool {
		return times[i] < times[j]
	})

	kept := make([]float64, 0, len(times))
	srcIdx := make([]int, 0, len(times))

	prev := times[order[0]]
	kept = append(kept, prev)
	srcIdx = append(srcIdx, order[0])

	for _, oi := range order[1:] {
		cur := times[oi]
		if cur-prev < tolerance || cur == prev {
			prev = cur
			continue
		}

		kept = append(kept, cur)
		srcIdx = append(srcIdx, oi)
		prev = cur
	}

	return kept, srcIdx
}

// Align selects values[i] for each surviving source index, realigning a
// per-spike field with the deduplicated timestamps.
//
// Returns nil when values is nil; out-of-range indices are skipped (the
// field stays nil rather than misaligned when lengths disagree).
func Align(values []float64, srcIdx []int) []float64 {
	if values == nil {
		return nil
	}

	out := make([]float64, 0, len(srcIdx))
	for _, i := range srcIdx {
		if i < 0 || i >= len(values) {
			return nil
		}
		out = append(out, values[i])
	}

	return out
}

func sortedOrder(n int, less func(i, j int) bool) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return less(order[a], order[b])
	})

	return order
}
