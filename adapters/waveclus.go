package adapters

import (
	"fmt"
	"path/filepath"

	"github.com/neurokit/spikekit/collection"
	"github.com/neurokit/spikekit/format"
)

// waveclusAdapter loads Wave_clus output: one two-column table per channel
// ("times_CSC%d.mat") holding cluster id and spike time in seconds.
// Cluster 0 is Wave_clus's unsorted bucket and is skipped.
type waveclusAdapter struct{}

func (a *waveclusAdapter) Name() format.SorterFormat { return format.WaveClus }
func (a *waveclusAdapter) SuppliesWaveforms() bool   { return false }

func (a *waveclusAdapter) Load(p Params) ([]collection.Unit, error) {
	groups, err := p.groups()
	if err != nil {
		return nil, err
	}

	var units []collection.Unit
	for _, g := range groups {
		name := fmt.Sprintf("times_CSC%d.mat", g)
		table, err := readClusterTimeTable(p.Columnar, filepath.Join(p.Dir(), name))
		if err != nil {
			return nil, err
		}

		units = append(units, unitsFromTable(table, g, 1, true)...)
	}

	return units, nil
}
