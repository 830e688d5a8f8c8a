// Package adapters maps each spike sorter's native file layout to partial
// unit records.
//
// One adapter exists per recognized format; dispatch goes through a
// name-keyed registry with case-insensitive lookup. Adapters read through
// the external source readers, deduplicate timestamps, and return an
// immutable snapshot of unit records ordered electrode group first. They
// have no side effects besides reads.
package adapters

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/neurokit/spikekit/collection"
	"github.com/neurokit/spikekit/errs"
	"github.com/neurokit/spikekit/format"
	"github.com/neurokit/spikekit/source"
)

// DefaultLabelsToInclude is the cluster-quality inclusion set used when
// the caller provides none.
var DefaultLabelsToInclude = []string{"good", "mua"}

// Params carries the locator and adapter-relevant parameters for one load.
type Params struct {
	// Basepath is the session directory.
	Basepath string
	// ClusteringPath is the sorter output directory. Empty means Basepath.
	ClusteringPath string
	// Basename names the recording session's files.
	Basename string

	// Session is the caller-resolved recording metadata.
	Session *source.SessionMetadata

	// Columnar and Hierarchical are the external file readers.
	Columnar     source.ColumnarReader
	Hierarchical source.HierarchicalReader

	// LabelsToInclude is the cluster-quality inclusion set for label-
	// filtering formats. Nil means DefaultLabelsToInclude.
	LabelsToInclude []string

	// ElectrodeGroups restricts per-group formats to a subset of 1-based
	// group ids. Nil means every group in the session metadata.
	ElectrodeGroups []int

	// LeastSignificantBit is the amplifier scale in µV per bit, for
	// formats that store amplitudes in raw ADC units.
	LeastSignificantBit float64

	// RawClusters supplies per-unit spike time arrays (seconds) for the
	// custom format.
	RawClusters [][]float64

	// Workers bounds the per-probe fan-out of the hierarchical-container
	// adapter. Values below 2 keep the load sequential.
	Workers int

	Logger logrus.FieldLogger
}

// Dir returns the directory adapters read sorter output from.
func (p *Params) Dir() string {
	if p.ClusteringPath != "" {
		return p.ClusteringPath
	}

	return p.Basepath
}

func (p *Params) path(name string) string {
	return filepath.Join(p.Dir(), name)
}

func (p *Params) samplingRate() (float64, error) {
	if err := p.Session.Require(source.FieldSamplingRate); err != nil {
		return 0, err
	}

	return p.Session.SamplingRate, nil
}

// groups resolves the 1-based electrode group ids to load.
func (p *Params) groups() ([]int, error) {
	if p.ElectrodeGroups != nil {
		return p.ElectrodeGroups, nil
	}

	if err := p.Session.Require(source.FieldElectrodeGroups); err != nil {
		return nil, err
	}

	ids := make([]int, len(p.Session.ElectrodeGroups))
	for i := range ids {
		ids[i] = i + 1
	}

	return ids, nil
}

func (p *Params) includeSet() map[string]bool {
	labels := p.LabelsToInclude
	if labels == nil {
		labels = DefaultLabelsToInclude
	}

	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[strings.ToLower(l)] = true
	}

	return set
}

func (p *Params) logger() logrus.FieldLogger {
	if p.Logger != nil {
		return p.Logger
	}

	logger := logrus.New()
	logger.SetOutput(nopWriter{})

	return logger
}

type nopWriter struct{}

func (nopWriter) Write(b []byte) (int, error) { return len(b), nil }

// Adapter maps one sorter's file layout to a list of partial unit records.
type Adapter interface {
	// Name returns the canonical format key.
	Name() format.SorterFormat

	// SuppliesWaveforms reports whether the adapter fills waveform fields
	// itself, making the external waveform extractor redundant.
	SuppliesWaveforms() bool

	// Load reads the sorter output and returns unit records ordered
	// electrode group first, within-group second.
	Load(p Params) ([]collection.Unit, error)
}

var registry = map[format.SorterFormat]Adapter{
	format.Phy:        &phyAdapter{name: format.Phy, labelChain: curatedLabelChain},
	format.KiloSort:   &phyAdapter{name: format.KiloSort, labelChain: sorterLabelChain},
	format.IronClust:  &phyAdapter{name: format.IronClust, labelChain: curatedLabelChain},
	format.Neurosuite: &neurosuiteAdapter{name: format.Neurosuite},
	format.KlustaKwik: &neurosuiteAdapter{name: format.KlustaKwik},
	format.ALF:        &alfAdapter{},
	format.MClust:     &mclustAdapter{},
	format.WaveClus:   &waveclusAdapter{},
	format.NWB:        &nwbAdapter{name: format.NWB},
	format.AllenSDK:   &nwbAdapter{name: format.AllenSDK, fixedFields: true},
	format.Custom:     &customAdapter{},
}

// reserved names are recognized but unbuilt. Lookup fails for them before
// any file access happens.
var reserved = map[format.SorterFormat]struct{}{
	format.KlustaViewa:   {},
	format.SpykingCircus: {},
}

// Lookup selects the adapter for a format name, case-insensitively.
//
// Returns:
//   - Adapter: The registered adapter
//   - error: ErrNotImplemented for reserved names, ErrUnsupportedFormat
//     for unknown ones
func Lookup(name string) (Adapter, error) {
	key := format.SorterFormat(strings.ToLower(strings.TrimSpace(name)))

	if _, ok := reserved[key]; ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrNotImplemented, key)
	}

	if adapter, ok := registry[key]; ok {
		return adapter, nil
	}

	return nil, fmt.Errorf("%w: %q", errs.ErrUnsupportedFormat, name)
}

// Formats returns every recognized format key, implemented and reserved.
func Formats() []format.SorterFormat {
	out := make([]format.SorterFormat, 0, len(registry)+len(reserved))
	for key := range registry {
		out = append(out, key)
	}
	for key := range reserved {
		out = append(out, key)
	}

	return out
}
