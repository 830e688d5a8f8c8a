package adapters

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/neurokit/spikekit/collection"
	"github.com/neurokit/spikekit/dedup"
	"github.com/neurokit/spikekit/errs"
	"github.com/neurokit/spikekit/format"
	"github.com/neurokit/spikekit/source"
)

// mclustAdapter loads MClust output: one two-column table per tetrode
// (cluster id, timestamp) with timestamps in MClust's native 0.1 ms ticks.
// Every cluster becomes a unit; MClust users delete noise clusters before
// export.
type mclustAdapter struct{}

// mclustTickSeconds converts MClust 0.1 ms timestamp ticks to seconds.
const mclustTickSeconds = 1e-4

func (a *mclustAdapter) Name() format.SorterFormat { return format.MClust }
func (a *mclustAdapter) SuppliesWaveforms() bool   { return false }

func (a *mclustAdapter) Load(p Params) ([]collection.Unit, error) {
	groups, err := p.groups()
	if err != nil {
		return nil, err
	}

	var units []collection.Unit
	for _, g := range groups {
		name := fmt.Sprintf("%s.TT%d.t", p.Basename, g)
		table, err := readClusterTimeTable(p.Columnar, filepath.Join(p.Dir(), name))
		if err != nil {
			return nil, err
		}

		units = append(units, unitsFromTable(table, g, mclustTickSeconds, false)...)
	}

	return units, nil
}

// clusterTimeTable is a parsed two-column (cluster, timestamp) table.
type clusterTimeTable struct {
	clusters []float64
	times    []float64
}

func readClusterTimeTable(reader source.ColumnarReader, path string) (*clusterTimeTable, error) {
	arr, err := reader.ReadArray(path)
	if err != nil {
		if source.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", errs.ErrMissingSourceFile, filepath.Base(path))
		}

		return nil, err
	}

	if arr.Cols != 2 {
		return nil, fmt.Errorf("%s: want 2 columns, have %d", filepath.Base(path), arr.Cols)
	}

	clusters, err := arr.Column(0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	times, err := arr.Column(1)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	return &clusterTimeTable{clusters: clusters, times: times}, nil
}

// unitsFromTable splits a (cluster, timestamp) table into per-cluster
// units. tickScale converts native timestamps to seconds; skipUnsorted
// drops cluster 0 for sorters that use it as the unsorted bucket.
func unitsFromTable(table *clusterTimeTable, group int, tickScale float64, skipUnsorted bool) []collection.Unit {
	timesByCluster := make(map[int64][]float64)
	for i, c := range table.clusters {
		clu := int64(c)
		if skipUnsorted && clu == 0 {
			continue
		}
		timesByCluster[clu] = append(timesByCluster[clu], table.times[i]*tickScale)
	}

	cluIDs := make([]int64, 0, len(timesByCluster))
	for clu := range timesByCluster {
		cluIDs = append(cluIDs, clu)
	}
	sort.Slice(cluIDs, func(i, j int) bool { return cluIDs[i] < cluIDs[j] })

	units := make([]collection.Unit, 0, len(cluIDs))
	for _, clu := range cluIDs {
		kept, srcIdx := dedup.Seconds(timesByCluster[clu], dedup.DefaultToleranceSeconds)

		units = append(units, collection.Unit{
			CluID:       clu,
			ShankID:     group,
			Times:       kept,
			SourceIndex: srcIdx,
		})
	}

	return units
}
