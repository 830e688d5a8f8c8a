package adapters

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/neurokit/spikekit/collection"
	"github.com/neurokit/spikekit/dedup"
	"github.com/neurokit/spikekit/format"
)

// neurosuiteAdapter loads Neurosuite/KlustaKwik output: one cluster file
// (.clu.N) and one sample-time file (.res.N) per electrode group.
//
// Cluster id conventions: 0 is noise and 1 is multi-unit hash; only
// clusters above 1 become units.
type neurosuiteAdapter struct {
	name format.SorterFormat
}

func (a *neurosuiteAdapter) Name() format.SorterFormat { return a.name }
func (a *neurosuiteAdapter) SuppliesWaveforms() bool   { return false }

func (a *neurosuiteAdapter) Load(p Params) ([]collection.Unit, error) {
	sr, err := p.samplingRate()
	if err != nil {
		return nil, err
	}

	groups, err := p.groups()
	if err != nil {
		return nil, err
	}

	tolerance := dedup.SampleTolerance(sr)

	var units []collection.Unit
	for _, g := range groups {
		groupUnits, err := a.loadGroup(p, g, sr, tolerance)
		if err != nil {
			return nil, err
		}

		units = append(units, groupUnits...)
	}

	return units, nil
}

func (a *neurosuiteAdapter) loadGroup(p Params, group int, sr float64, tolerance int64) ([]collection.Unit, error) {
	cluName := fmt.Sprintf("%s.clu.%d", p.Basename, group)
	resName := fmt.Sprintf("%s.res.%d", p.Basename, group)

	clu, err := readRequiredInt64s(p.Columnar, filepath.Join(p.Dir(), cluName))
	if err != nil {
		return nil, err
	}

	res, err := readRequiredInt64s(p.Columnar, filepath.Join(p.Dir(), resName))
	if err != nil {
		return nil, err
	}

	if len(clu) == 0 {
		return nil, fmt.Errorf("%s: empty cluster file", cluName)
	}

	// The first entry of a .clu file is the cluster count, not a spike.
	clusterCount := clu[0]
	clu = clu[1:]

	if len(clu) != len(res) {
		return nil, fmt.Errorf("%s has %d spikes, %s has %d", cluName, len(clu), resName, len(res))
	}

	samplesByCluster := make(map[int64][]int64)
	for i, c := range clu {
		if c <= 1 {
			// 0 = noise, 1 = MUA hash; both excluded.
			continue
		}
		samplesByCluster[c] = append(samplesByCluster[c], res[i])
	}

	if int64(len(samplesByCluster)) > clusterCount {
		p.logger().WithField("action", "load_neurosuite").
			WithField("group", group).
			Warnf("%s header declares %d clusters, found %d", cluName, clusterCount, len(samplesByCluster))
	}

	cluIDs := make([]int64, 0, len(samplesByCluster))
	for c := range samplesByCluster {
		cluIDs = append(cluIDs, c)
	}
	sort.Slice(cluIDs, func(i, j int) bool { return cluIDs[i] < cluIDs[j] })

	units := make([]collection.Unit, 0, len(cluIDs))
	for _, c := range cluIDs {
		kept, srcIdx := dedup.Samples(samplesByCluster[c], tolerance)

		units = append(units, collection.Unit{
			CluID:       c,
			ShankID:     group,
			Times:       samplesToSeconds(kept, sr),
			SourceIndex: srcIdx,
		})
	}

	return units, nil
}
