package adapters

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/neurokit/spikekit/collection"
	"github.com/neurokit/spikekit/dedup"
	"github.com/neurokit/spikekit/errs"
	"github.com/neurokit/spikekit/format"
	"github.com/neurokit/spikekit/internal/pool"
	"github.com/neurokit/spikekit/source"
)

// alfAdapter loads ALF-style output (IBL conventions): spike times already
// in seconds, cluster assignments and optional amplitudes as flat arrays.
type alfAdapter struct{}

func (a *alfAdapter) Name() format.SorterFormat { return format.ALF }
func (a *alfAdapter) SuppliesWaveforms() bool   { return false }

func (a *alfAdapter) Load(p Params) ([]collection.Unit, error) {
	times, err := readRequiredFloat64s(p.Columnar, p.path("spikes.times.npy"))
	if err != nil {
		return nil, err
	}

	clusters, err := readRequiredInt64s(p.Columnar, p.path("spikes.clusters.npy"))
	if err != nil {
		return nil, err
	}

	if len(times) != len(clusters) {
		return nil, fmt.Errorf("spikes.times.npy has %d rows, spikes.clusters.npy has %d",
			len(times), len(clusters))
	}

	var amps []float64
	if arr, err := p.Columnar.ReadArray(p.path("spikes.amps.npy")); err == nil {
		if amps, err = arr.Float64s(); err != nil {
			return nil, fmt.Errorf("spikes.amps.npy: %w", err)
		}
	} else if !source.IsNotFound(err) {
		return nil, err
	}

	rowsByCluster := make(map[int64][]int)
	for row, clu := range clusters {
		rowsByCluster[clu] = append(rowsByCluster[clu], row)
	}

	cluIDs := make([]int64, 0, len(rowsByCluster))
	for clu := range rowsByCluster {
		cluIDs = append(cluIDs, clu)
	}
	sort.Slice(cluIDs, func(i, j int) bool { return cluIDs[i] < cluIDs[j] })

	units := make([]collection.Unit, 0, len(cluIDs))
	for _, clu := range cluIDs {
		rows := rowsByCluster[clu]

		cluTimes, release := pool.GetFloat64Slice(len(rows))
		var cluAmps []float64
		releaseAmps := func() {}
		if amps != nil {
			cluAmps, releaseAmps = pool.GetFloat64Slice(len(rows))
		}
		for i, row := range rows {
			cluTimes[i] = times[row]
			if cluAmps != nil {
				cluAmps[i] = amps[row]
			}
		}

		kept, srcIdx := dedup.Seconds(cluTimes, dedup.DefaultToleranceSeconds)
		aligned := dedup.Align(cluAmps, srcIdx)
		release()
		releaseAmps()

		units = append(units, collection.Unit{
			CluID:       clu,
			ShankID:     1,
			Times:       kept,
			Amplitudes:  aligned,
			SourceIndex: globalRows(rows, srcIdx),
		})
	}

	return units, nil
}

func readRequiredFloat64s(reader source.ColumnarReader, path string) ([]float64, error) {
	arr, err := reader.ReadArray(path)
	if err != nil {
		if source.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", errs.ErrMissingSourceFile, filepath.Base(path))
		}

		return nil, err
	}

	values, err := arr.Float64s()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	return values, nil
}
