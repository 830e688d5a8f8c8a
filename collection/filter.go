package collection

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/neurokit/spikekit/errs"
)

// Criteria constrains units to allowed value sets, one set per field. A
// nil set leaves that field unconstrained.
type Criteria struct {
	UID     []int
	ShankID []int
	CluID   []int64
	Region  []string
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c.UID == nil && c.ShankID == nil && c.CluID == nil && c.Region == nil
}

// Filter removes units whose field values fall outside the allowed sets.
//
// Criteria are applied in the order uid, shankID, cluID, region; the net
// effect is the conjunction of all provided criteria, so application order
// does not change the result. Removal is atomic across every per-unit
// field because units are removed whole. Surviving units keep their
// original uids.
//
// The first Filter call captures NumcellsOrig; later calls never touch it.
//
// A criterion naming a field the collection does not carry is skipped with
// a warning; this is the only recoverable condition here. The returned
// slice holds one ErrFilterFieldMissing per skipped criterion.
func (c *Collection) Filter(crit Criteria, logger logrus.FieldLogger) []error {
	if logger == nil {
		logger = discardLogger()
	}

	if !c.NumcellsOrigSet {
		c.NumcellsOrig = len(c.Units)
		c.NumcellsOrigSet = true
	}

	var warnings []error

	if crit.UID != nil {
		allowed := toSet(crit.UID)
		c.keep(func(u *Unit) bool { return allowed[u.UID] })
	}

	if crit.ShankID != nil {
		allowed := toSet(crit.ShankID)
		c.keep(func(u *Unit) bool { return allowed[u.ShankID] })
	}

	if crit.CluID != nil {
		allowed := toSet(crit.CluID)
		c.keep(func(u *Unit) bool { return allowed[u.CluID] })
	}

	if crit.Region != nil {
		if !c.HasRegions() {
			warn := fmt.Errorf("%w: region", errs.ErrFilterFieldMissing)
			warnings = append(warnings, warn)
			logger.WithField("action", "filter_units").
				WithField("field", "region").
				Warn("criterion skipped: field absent from collection")
		} else {
			allowed := toSet(crit.Region)
			c.keep(func(u *Unit) bool { return u.HasRegion && allowed[u.Region] })
		}
	}

	return warnings
}

// keep retains units satisfying pred, preserving order.
func (c *Collection) keep(pred func(*Unit) bool) {
	kept := c.Units[:0]
	for i := range c.Units {
		if pred(&c.Units[i]) {
			kept = append(kept, c.Units[i])
		}
	}

	// Zero the tail so dropped units do not pin waveform arrays.
	for i := len(kept); i < len(c.Units); i++ {
		c.Units[i] = Unit{}
	}

	c.Units = kept
}

func toSet[T comparable](values []T) map[T]bool {
	set := make(map[T]bool, len(values))
	for _, v := range values {
		set[v] = true
	}

	return set
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(discardWriter{})

	return logger
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
