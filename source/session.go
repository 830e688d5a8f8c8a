package source

import (
	"fmt"

	"github.com/neurokit/spikekit/errs"
)

// SessionMetadata carries the recording-session facts the adapters need.
//
// The caller resolves metadata (by its own inference chain) before invoking
// the import; spikekit only checks that the fields a given adapter requires
// are present.
type SessionMetadata struct {
	// SamplingRate is the recording sampling rate in Hz.
	SamplingRate float64

	// ChannelCount is the total number of recorded channels.
	ChannelCount int

	// ElectrodeGroups maps group index (0-based) to the channels sorted
	// together on that group (shank, tetrode or probe).
	ElectrodeGroups [][]int

	// LeastSignificantBit is the amplifier scale in µV per bit. Zero means
	// unknown.
	LeastSignificantBit float64

	// ProbeFiles lists per-probe container files for multi-probe
	// hierarchical recordings. Empty means a single container named after
	// the basename.
	ProbeFiles []string
}

// Metadata field names used with Require and in MissingMetadata errors.
const (
	FieldSamplingRate    = "samplingRate"
	FieldChannelCount    = "channelCount"
	FieldElectrodeGroups = "electrodeGroups"
	FieldLSB             = "leastSignificantBit"
)

// Require fails with ErrMissingMetadata naming the first absent field.
//
// A nil receiver fails on the first requested field.
func (m *SessionMetadata) Require(fields ...string) error {
	for _, field := range fields {
		if m == nil {
			return fmt.Errorf("%w: %s", errs.ErrMissingMetadata, field)
		}

		missing := false
		switch field {
		case FieldSamplingRate:
			missing = m.SamplingRate <= 0
		case FieldChannelCount:
			missing = m.ChannelCount <= 0
		case FieldElectrodeGroups:
			missing = len(m.ElectrodeGroups) == 0
		case FieldLSB:
			missing = m.LeastSignificantBit <= 0
		default:
			missing = true
		}

		if missing {
			return fmt.Errorf("%w: %s", errs.ErrMissingMetadata, field)
		}
	}

	return nil
}

// GroupChannelOffset returns the number of channels on groups preceding
// group index g. Used to correct per-probe channel indices when merging
// multi-probe containers.
func (m *SessionMetadata) GroupChannelOffset(g int) int {
	offset := 0
	for i := 0; i < g && i < len(m.ElectrodeGroups); i++ {
		offset += len(m.ElectrodeGroups[i])
	}

	return offset
}
