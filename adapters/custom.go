package adapters

import (
	"fmt"

	"github.com/neurokit/spikekit/collection"
	"github.com/neurokit/spikekit/dedup"
	"github.com/neurokit/spikekit/errs"
	"github.com/neurokit/spikekit/format"
)

// customAdapter wraps caller-supplied spike time arrays, one per unit,
// already in seconds. No files are read; cluster ids are assigned by
// position starting at 1.
type customAdapter struct{}

func (a *customAdapter) Name() format.SorterFormat { return format.Custom }
func (a *customAdapter) SuppliesWaveforms() bool   { return false }

func (a *customAdapter) Load(p Params) ([]collection.Unit, error) {
	if p.RawClusters == nil {
		return nil, fmt.Errorf("%w: rawClusters", errs.ErrMissingMetadata)
	}

	units := make([]collection.Unit, 0, len(p.RawClusters))
	for i, times := range p.RawClusters {
		kept, srcIdx := dedup.Seconds(times, dedup.DefaultToleranceSeconds)

		units = append(units, collection.Unit{
			CluID:       int64(i + 1),
			ShankID:     1,
			Times:       kept,
			SourceIndex: srcIdx,
		})
	}

	return units, nil
}
