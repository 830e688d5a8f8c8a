package collection

import (
	"fmt"

	"github.com/neurokit/spikekit/errs"
)

// Assemble builds a canonical collection from adapter-produced unit
// records.
//
// Units must already be ordered group-first, within-group second, the
// order adapters naturally produce. Assemble assigns dense uids 1..N,
// computes Total from Times, and validates that every unit's times are
// strictly increasing (adapters deduplicate before handing units over).
//
// Parameters:
//   - basename: Session basename, stored at the collection level
//   - sr: Sampling rate in Hz
//   - units: Adapter output; the slice is owned by the collection afterwards
//
// Returns:
//   - *Collection: Assembled collection
//   - error: ErrEmptyCollection when no units were produced, or
//     ErrUnsortedTimes naming the offending unit
func Assemble(basename string, sr float64, units []Unit) (*Collection, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: %s", errs.ErrEmptyCollection, basename)
	}

	for i := range units {
		u := &units[i]
		u.UID = i + 1
		u.Total = len(u.Times)

		for j := 1; j < len(u.Times); j++ {
			if u.Times[j] <= u.Times[j-1] {
				return nil, fmt.Errorf("%w: group %d cluster %d at spike %d",
					errs.ErrUnsortedTimes, u.ShankID, u.CluID, j)
			}
		}
	}

	return &Collection{
		Basename: basename,
		SR:       sr,
		Units:    units,
	}, nil
}
