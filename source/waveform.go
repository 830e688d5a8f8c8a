package source

import "github.com/neurokit/spikekit/collection"

// WaveformExtractor pulls mean and standard-deviation waveforms for every
// unit out of the continuous raw recording.
//
// Extract receives the assembled collection (without waveform fields) and
// mutates it in place, adding waveform summaries keyed by the existing uid
// alignment. It must not add or remove units. It runs once after assembly
// for every format except the one whose adapter already supplies waveforms
// from its container.
type WaveformExtractor interface {
	Extract(col *collection.Collection, meta *SessionMetadata) error
}
