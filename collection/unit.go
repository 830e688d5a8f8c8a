// Package collection defines the canonical in-memory spike-collection
// model: units, the collection that owns them, assembly from adapter
// output, post-hoc unit filtering and the provenance block.
//
// A Unit carries every per-unit field inline, so any unit removal is
// atomic across all fields by construction; there are no parallel arrays
// to desynchronize.
package collection

// Waveform holds per-channel waveform summaries for one unit.
//
// Mean and Std are indexed [channel][sample]. Channels use collection-wide
// (0-based) channel numbering.
type Waveform struct {
	Mean [][]float64 `json:"mean"`
	Std  [][]float64 `json:"std,omitempty"`
}

// Unit is one identified spiking source.
//
// UID, CluID, ShankID, Times and Total exist for every unit. The remaining
// fields are optional: only some formats produce them, and absent fields
// stay at their zero value with the matching Has flag false. Absent fields
// are never synthesized or backfilled.
type Unit struct {
	// UID is the system-wide dense identifier, 1..N within one collection.
	// Assigned at assembly; preserved (not reassigned) by filtering.
	UID int `json:"uid"`

	// CluID is the sorter-native cluster id, scoped to its electrode group.
	CluID int64 `json:"cluID"`

	// ShankID is the electrode-group id the unit was sorted on.
	ShankID int `json:"shankID"`

	// Times are spike event timestamps in seconds: strictly increasing and
	// deduplicated.
	Times []float64 `json:"-"`

	// Total is the number of spikes; always equal to len(Times).
	Total int `json:"total"`

	// Amplitudes holds one amplitude per surviving spike, aligned with
	// Times through the dedup source-index mapping.
	Amplitudes []float64 `json:"amplitudes,omitempty"`

	// SourceIndex maps each surviving spike back to its row in the sorter
	// output, for formats that deduplicate.
	SourceIndex []int `json:"sourceIndex,omitempty"`

	// Region is the anatomical region label.
	Region    string `json:"region,omitempty"`
	HasRegion bool   `json:"hasRegion,omitempty"`

	// MaxWaveformCh and MaxWaveformCh1 are the 0- and 1-indexed channel of
	// the largest-amplitude waveform. MaxWaveformCh == MaxWaveformCh1 - 1
	// whenever present.
	MaxWaveformCh    int  `json:"maxWaveformCh,omitempty"`
	MaxWaveformCh1   int  `json:"maxWaveformCh1,omitempty"`
	HasMaxWaveformCh bool `json:"hasMaxWaveformCh,omitempty"`

	// RawWaveform and FilteredWaveform are per-channel waveform summaries
	// extracted from the raw recording or supplied by the source container.
	RawWaveform      *Waveform `json:"rawWaveform,omitempty"`
	FilteredWaveform *Waveform `json:"filteredWaveform,omitempty"`

	// PeakVoltage is the peak-to-peak voltage in µV on the max-waveform
	// channel.
	PeakVoltage    float64 `json:"peakVoltage,omitempty"`
	HasPeakVoltage bool    `json:"hasPeakVoltage,omitempty"`
}

// SetMaxWaveformCh records the max-waveform channel from its 0-based index
// and keeps the paired 1-based field consistent.
func (u *Unit) SetMaxWaveformCh(zeroBased int) {
	u.MaxWaveformCh = zeroBased
	u.MaxWaveformCh1 = zeroBased + 1
	u.HasMaxWaveformCh = true
}

// SetRegion records the anatomical region label.
func (u *Unit) SetRegion(region string) {
	u.Region = region
	u.HasRegion = true
}

// SetPeakVoltage records the peak-to-peak voltage.
func (u *Unit) SetPeakVoltage(uv float64) {
	u.PeakVoltage = uv
	u.HasPeakVoltage = true
}
