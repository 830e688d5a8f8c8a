package collection

// Collection is the unified, format-agnostic representation of one
// recording's sorted units.
//
// A collection is either loaded whole from the store or assembled once
// from adapter output. After that it is only mutated by Filter (which
// removes units, never edits surviving fields) and by a waveform extractor
// (which only adds waveform fields).
type Collection struct {
	// Basename names the recording session.
	Basename string

	// SR is the recording sampling rate in Hz.
	SR float64

	// Units in assembly order: electrode group first, then within-group
	// index. Unit i has UID i+1 until the first filter removes units;
	// UIDs are never reassigned afterwards.
	Units []Unit

	// NumcellsOrig is the unit count before the first filter application.
	// Captured exactly once; never overwritten by later filters.
	NumcellsOrig    int
	NumcellsOrigSet bool

	// Processing is the provenance block stamped at rebuild time.
	Processing Provenance
}

// Numcells returns the current unit count.
func (c *Collection) Numcells() int {
	return len(c.Units)
}

// UnitByUID returns the unit with the given uid, or nil.
func (c *Collection) UnitByUID(uid int) *Unit {
	for i := range c.Units {
		if c.Units[i].UID == uid {
			return &c.Units[i]
		}
	}

	return nil
}

// HasRegions reports whether any unit carries a region label.
func (c *Collection) HasRegions() bool {
	for i := range c.Units {
		if c.Units[i].HasRegion {
			return true
		}
	}

	return false
}
