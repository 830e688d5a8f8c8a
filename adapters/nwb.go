package adapters

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/neurokit/spikekit/collection"
	"github.com/neurokit/spikekit/dedup"
	"github.com/neurokit/spikekit/errs"
	"github.com/neurokit/spikekit/format"
	"github.com/neurokit/spikekit/source"
)

// nwbAdapter loads hierarchical-container output (NWB layout): one ragged
// units table per probe file, addressed by dataset path.
//
// spike_times holds every unit's spikes concatenated; spike_times_index
// holds per-unit end offsets into it. The fixedFields variant restricts
// itself to the field list the AllenSDK writes (spike_times,
// spike_times_index, peak_channel_id) and takes every unit.
//
// Multi-probe sessions fan out one goroutine per probe file, bounded by
// Params.Workers, and merge results in probe order with per-unit channel
// indices shifted by the preceding probes' channel counts.
type nwbAdapter struct {
	name        format.SorterFormat
	fixedFields bool
}

func (a *nwbAdapter) Name() format.SorterFormat { return a.name }

// SuppliesWaveforms is true: the container carries mean waveforms, so the
// external raw-recording extractor is redundant.
func (a *nwbAdapter) SuppliesWaveforms() bool { return !a.fixedFields }

func (a *nwbAdapter) Load(p Params) ([]collection.Unit, error) {
	if p.Hierarchical == nil {
		return nil, fmt.Errorf("%w: hierarchical reader required for %s", errs.ErrMissingMetadata, a.name)
	}

	probes := a.probeFiles(p)

	perProbe := make([][]collection.Unit, len(probes))

	if len(probes) > 1 && p.Workers > 1 {
		var eg errgroup.Group
		eg.SetLimit(p.Workers)

		for i, path := range probes {
			i, path := i, path
			eg.Go(func() error {
				units, err := a.loadProbe(p, path, i)
				if err != nil {
					return err
				}

				perProbe[i] = units

				return nil
			})
		}

		// Any probe failure aborts the whole load; a partial merge would
		// produce a collection that silently misses units.
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, path := range probes {
			units, err := a.loadProbe(p, path, i)
			if err != nil {
				return nil, err
			}

			perProbe[i] = units
		}
	}

	var units []collection.Unit
	for _, probeUnits := range perProbe {
		units = append(units, probeUnits...)
	}

	return units, nil
}

// probeFiles resolves the container files to load, in probe order.
func (a *nwbAdapter) probeFiles(p Params) []string {
	if p.Session != nil && len(p.Session.ProbeFiles) > 0 {
		paths := make([]string, len(p.Session.ProbeFiles))
		for i, name := range p.Session.ProbeFiles {
			paths[i] = filepath.Join(p.Dir(), name)
		}

		return paths
	}

	return []string{p.path(p.Basename + ".nwb")}
}

func (a *nwbAdapter) loadProbe(p Params, path string, probe int) ([]collection.Unit, error) {
	times, err := readDatasetFloat64s(p.Hierarchical, path, "units/spike_times")
	if err != nil {
		return nil, err
	}

	ends, err := readDatasetInt64s(p.Hierarchical, path, "units/spike_times_index")
	if err != nil {
		return nil, err
	}

	if n := len(ends); n > 0 && ends[n-1] != int64(len(times)) {
		return nil, fmt.Errorf("%s: spike_times_index ends at %d, spike_times has %d entries",
			filepath.Base(path), ends[len(ends)-1], len(times))
	}

	channelOffset := 0
	if p.Session != nil {
		channelOffset = p.Session.GroupChannelOffset(probe)
	}

	units := make([]collection.Unit, len(ends))

	var start int64
	for u, end := range ends {
		if end < start {
			return nil, fmt.Errorf("%s: spike_times_index not monotonic at unit %d", filepath.Base(path), u)
		}

		kept, srcIdx := dedup.Seconds(times[start:end], dedup.DefaultToleranceSeconds)

		units[u] = collection.Unit{
			CluID:       int64(u),
			ShankID:     probe + 1,
			Times:       kept,
			SourceIndex: srcIdx,
		}

		start = end
	}

	if a.fixedFields {
		if err := a.attachPeakChannels(p, path, units, channelOffset); err != nil {
			return nil, err
		}

		return units, nil
	}

	if err := a.attachOptionalFields(p, path, units, channelOffset); err != nil {
		return nil, err
	}

	return units, nil
}

// attachPeakChannels reads the AllenSDK peak_channel_id dataset, required
// in the fixed-field layout.
func (a *nwbAdapter) attachPeakChannels(p Params, path string, units []collection.Unit, channelOffset int) error {
	peaks, err := readDatasetInt64s(p.Hierarchical, path, "units/peak_channel_id")
	if err != nil {
		return err
	}

	if len(peaks) != len(units) {
		return fmt.Errorf("%s: peak_channel_id has %d entries for %d units",
			filepath.Base(path), len(peaks), len(units))
	}

	for u := range units {
		units[u].SetMaxWaveformCh(int(peaks[u]) + channelOffset)
	}

	return nil
}

// attachOptionalFields reads the datasets the full NWB layout may carry.
// Missing datasets are fine; a present but malformed one fails the load.
//
// The reads go through the reader directly so a missing dataset still
// carries its fs.ErrNotExist chain; readDatasetInt64s rewraps that as
// ErrMissingSourceFile and is reserved for required datasets.
func (a *nwbAdapter) attachOptionalFields(p Params, path string, units []collection.Unit, channelOffset int) error {
	if arr, err := p.Hierarchical.ReadDataset(path, "units/electrode_group"); err == nil {
		groups, err := arr.Int64s()
		if err != nil {
			return fmt.Errorf("%s: electrode_group: %w", filepath.Base(path), err)
		}
		if len(groups) != len(units) {
			return fmt.Errorf("%s: electrode_group has %d entries for %d units",
				filepath.Base(path), len(groups), len(units))
		}
		for u := range units {
			units[u].ShankID = int(groups[u]) + 1
		}
	} else if !source.IsNotFound(err) {
		return err
	}

	if arr, err := p.Hierarchical.ReadDataset(path, "units/region"); err == nil {
		if arr.Len() != len(units) || arr.Strings == nil {
			return fmt.Errorf("%s: region has %d entries for %d units",
				filepath.Base(path), arr.Len(), len(units))
		}
		for u := range units {
			units[u].SetRegion(arr.Strings[u])
		}
	} else if !source.IsNotFound(err) {
		return err
	}

	if arr, err := p.Hierarchical.ReadDataset(path, "units/waveform_mean"); err == nil {
		if arr.Rows != len(units) {
			return fmt.Errorf("%s: waveform_mean has %d rows for %d units",
				filepath.Base(path), arr.Rows, len(units))
		}
		for u := range units {
			mean, err := arr.Row(u)
			if err != nil {
				return fmt.Errorf("%s: waveform_mean: %w", filepath.Base(path), err)
			}
			units[u].RawWaveform = &collection.Waveform{Mean: [][]float64{mean}}
		}
	} else if !source.IsNotFound(err) {
		return err
	}

	if arr, err := p.Hierarchical.ReadDataset(path, "units/peak_channel_id"); err == nil {
		peaks, err := arr.Int64s()
		if err != nil {
			return fmt.Errorf("%s: peak_channel_id: %w", filepath.Base(path), err)
		}
		if len(peaks) != len(units) {
			return fmt.Errorf("%s: peak_channel_id has %d entries for %d units",
				filepath.Base(path), len(peaks), len(units))
		}
		for u := range units {
			units[u].SetMaxWaveformCh(int(peaks[u]) + channelOffset)
		}
	} else if !source.IsNotFound(err) {
		return err
	}

	return nil
}

func readDatasetFloat64s(reader source.HierarchicalReader, path, dataset string) ([]float64, error) {
	arr, err := reader.ReadDataset(path, dataset)
	if err != nil {
		if source.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s:%s", errs.ErrMissingSourceFile, filepath.Base(path), dataset)
		}

		return nil, err
	}

	values, err := arr.Float64s()
	if err != nil {
		return nil, fmt.Errorf("%s:%s: %w", filepath.Base(path), dataset, err)
	}

	return values, nil
}

func readDatasetInt64s(reader source.HierarchicalReader, path, dataset string) ([]int64, error) {
	arr, err := reader.ReadDataset(path, dataset)
	if err != nil {
		if source.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s:%s", errs.ErrMissingSourceFile, filepath.Base(path), dataset)
		}

		return nil, err
	}

	values, err := arr.Int64s()
	if err != nil {
		return nil, fmt.Errorf("%s:%s: %w", filepath.Base(path), dataset, err)
	}

	return values, nil
}
