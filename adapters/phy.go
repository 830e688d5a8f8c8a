package adapters

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/neurokit/spikekit/collection"
	"github.com/neurokit/spikekit/dedup"
	"github.com/neurokit/spikekit/errs"
	"github.com/neurokit/spikekit/format"
	"github.com/neurokit/spikekit/internal/pool"
	"github.com/neurokit/spikekit/source"
)

// Label-file fallback chains. The order encodes trust between tool
// versions: the first file found wins, even when a later candidate
// disagrees.
var (
	// curatedLabelChain prefers manually curated labels over auto-sorter
	// output.
	curatedLabelChain = []string{
		"cluster_group.tsv",
		"cluster_groups.csv",
		"cluster_KSLabel.tsv",
	}

	// sorterLabelChain prefers the sorter's own labels, for outputs that
	// were never curated.
	sorterLabelChain = []string{
		"cluster_KSLabel.tsv",
		"cluster_group.tsv",
		"cluster_groups.csv",
	}
)

// phyAdapter loads phy-style sorter output: flat NPY arrays indexed by
// spike, plus one cluster-quality label table resolved through a fallback
// chain. Shared by the phy, kilosort and ironclust formats, which differ
// only in their label-file trust order.
type phyAdapter struct {
	name       format.SorterFormat
	labelChain []string
}

func (a *phyAdapter) Name() format.SorterFormat { return a.name }
func (a *phyAdapter) SuppliesWaveforms() bool   { return false }

func (a *phyAdapter) Load(p Params) ([]collection.Unit, error) {
	sr, err := p.samplingRate()
	if err != nil {
		return nil, err
	}

	samples, err := readRequiredInt64s(p.Columnar, p.path("spike_times.npy"))
	if err != nil {
		return nil, err
	}

	clusters, err := readRequiredInt64s(p.Columnar, p.path("spike_clusters.npy"))
	if err != nil {
		return nil, err
	}

	if len(samples) != len(clusters) {
		return nil, fmt.Errorf("spike_times.npy has %d rows, spike_clusters.npy has %d",
			len(samples), len(clusters))
	}

	// Amplitudes are optional; not every phy output carries them.
	var amplitudes []float64
	if arr, err := p.Columnar.ReadArray(p.path("amplitudes.npy")); err == nil {
		if amplitudes, err = arr.Float64s(); err != nil {
			return nil, fmt.Errorf("amplitudes.npy: %w", err)
		}
	} else if !source.IsNotFound(err) {
		return nil, err
	}

	labels, err := readLabelTable(p.Columnar, p.Dir(), a.labelChain)
	if err != nil {
		return nil, err
	}

	include := p.includeSet()

	// Group spike rows by cluster, keeping only included clusters.
	rowsByCluster := make(map[int64][]int)
	for row, clu := range clusters {
		label, ok := labels[clu]
		if !ok || !include[strings.ToLower(label)] {
			continue
		}
		rowsByCluster[clu] = append(rowsByCluster[clu], row)
	}

	cluIDs := make([]int64, 0, len(rowsByCluster))
	for clu := range rowsByCluster {
		cluIDs = append(cluIDs, clu)
	}
	sort.Slice(cluIDs, func(i, j int) bool { return cluIDs[i] < cluIDs[j] })

	tolerance := dedup.SampleTolerance(sr)
	units := make([]collection.Unit, 0, len(cluIDs))

	for _, clu := range cluIDs {
		rows := rowsByCluster[clu]

		// Pooled scratch: the gathered values only live until dedup
		// returns its own slices.
		cluSamples, release := pool.GetInt64Slice(len(rows))
		var cluAmps []float64
		releaseAmps := func() {}
		if amplitudes != nil {
			cluAmps, releaseAmps = pool.GetFloat64Slice(len(rows))
		}
		for i, row := range rows {
			cluSamples[i] = samples[row]
			if cluAmps != nil {
				cluAmps[i] = amplitudes[row]
			}
		}

		kept, srcIdx := dedup.Samples(cluSamples, tolerance)
		amps := scaleAmplitudes(dedup.Align(cluAmps, srcIdx), p.LeastSignificantBit)
		release()
		releaseAmps()

		unit := collection.Unit{
			CluID:       clu,
			ShankID:     1,
			Times:       samplesToSeconds(kept, sr),
			Amplitudes:  amps,
			SourceIndex: globalRows(rows, srcIdx),
		}
		units = append(units, unit)
	}

	return units, nil
}

// readLabelTable walks the fallback chain and returns the first label
// table found. Only a missing file advances the chain; a malformed table
// fails the load.
func readLabelTable(reader source.ColumnarReader, dir string, chain []string) (map[int64]string, error) {
	for _, name := range chain {
		labels, err := reader.ReadLabels(filepath.Join(dir, name))
		if err != nil {
			if source.IsNotFound(err) {
				continue
			}

			return nil, err
		}

		return labels, nil
	}

	return nil, fmt.Errorf("%w: %s (tried %s)",
		errs.ErrMissingSourceFile, chain[0], strings.Join(chain, ", "))
}

func readRequiredInt64s(reader source.ColumnarReader, path string) ([]int64, error) {
	arr, err := reader.ReadArray(path)
	if err != nil {
		if source.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", errs.ErrMissingSourceFile, filepath.Base(path))
		}

		return nil, err
	}

	values, err := arr.Int64s()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	return values, nil
}

func samplesToSeconds(samples []int64, sr float64) []float64 {
	times := make([]float64, len(samples))
	for i, s := range samples {
		times[i] = float64(s) / sr
	}

	return times
}

// scaleAmplitudes converts raw ADC amplitudes to µV when the amplifier
// scale is known; unscaled values pass through.
func scaleAmplitudes(amps []float64, lsb float64) []float64 {
	if amps == nil || lsb <= 0 {
		return amps
	}

	scaled := make([]float64, len(amps))
	for i, a := range amps {
		scaled[i] = a * lsb
	}

	return scaled
}

// globalRows maps per-cluster dedup survivors back to rows in the flat
// sorter arrays.
func globalRows(rows []int, srcIdx []int) []int {
	out := make([]int, len(srcIdx))
	for i, idx := range srcIdx {
		out[i] = rows[idx]
	}

	return out
}
