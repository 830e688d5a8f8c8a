// Package spikekit ingests the output of heterogeneous spike-sorting
// toolchains and normalizes it into one canonical spike collection.
//
// The entry operation is ImportSpikes: it decides between reusing a
// persisted collection and rebuilding from sorter files, dispatches to the
// matching format adapter, assembles the canonical collection, optionally
// runs the caller's waveform extractor, stamps provenance, persists the
// result and applies the unit filter last.
//
// File parsing is delegated: callers supply source.ColumnarReader and
// source.HierarchicalReader implementations, spikekit supplies the format
// knowledge. Persisted collections live in single binary files handled by
// the store package.
package spikekit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/neurokit/spikekit/adapters"
	"github.com/neurokit/spikekit/collection"
	"github.com/neurokit/spikekit/source"
	"github.com/neurokit/spikekit/store"
)

// Version is the pipeline version stamped into rebuilt collections.
const Version = collection.Version

// MinSupportedVersion is the oldest persisted-collection version
// ImportSpikes will reuse instead of rebuilding.
const MinSupportedVersion = collection.MinSupportedVersion

// Options configures one ImportSpikes call.
type Options struct {
	// Basepath is the session directory. Persisted collections live here.
	Basepath string

	// ClusteringPath is the sorter output directory when it differs from
	// Basepath.
	ClusteringPath string

	// Format is the sorter format key, matched case-insensitively against
	// the adapter registry.
	Format string

	// Basename names the recording session's files.
	Basename string

	// ElectrodeGroups restricts per-group formats to a subset of 1-based
	// group ids. Nil means every group in the session metadata.
	ElectrodeGroups []int

	// RawClusters supplies per-unit spike time arrays (seconds) for the
	// custom format.
	RawClusters [][]float64

	// SaveOutput persists the collection after a successful rebuild.
	SaveOutput bool

	// ForceReload rebuilds from sorter files even when a valid persisted
	// collection exists.
	ForceReload bool

	// ExtractWaveformsFromRaw and ExtractWaveformsFromSource request the
	// external waveform extractor after assembly. Ignored for adapters that
	// supply waveforms themselves.
	ExtractWaveformsFromRaw    bool
	ExtractWaveformsFromSource bool

	// ExistingCollection short-circuits both the cache check and the
	// rebuild, the same way a cache hit does. The filter still applies.
	ExistingCollection *collection.Collection

	// LeastSignificantBit is the amplifier scale in µV per bit. Zero falls
	// back to the session metadata value.
	LeastSignificantBit float64

	// Session is the caller-resolved recording metadata.
	Session *source.SessionMetadata

	// LabelsToInclude is the cluster-quality inclusion set for
	// label-filtering formats. Nil means adapters.DefaultLabelsToInclude.
	LabelsToInclude []string

	// Filter is applied last, on both the reused and rebuilt paths.
	Filter *collection.Criteria

	// Columnar and Hierarchical are the external file readers.
	Columnar     source.ColumnarReader
	Hierarchical source.HierarchicalReader

	// Extractor is the external waveform extractor.
	Extractor source.WaveformExtractor

	// Store overrides the default store rooted at Basepath.
	Store *store.Store

	// Workers bounds the per-probe fan-out of the hierarchical-container
	// adapter.
	Workers int

	Logger logrus.FieldLogger
}

func (o *Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}

	logger := logrus.New()
	logger.SetOutput(nopWriter{})

	return logger
}

type nopWriter struct{}

func (nopWriter) Write(b []byte) (int, error) { return len(b), nil }

func (o *Options) lsb() float64 {
	if o.LeastSignificantBit > 0 {
		return o.LeastSignificantBit
	}

	if o.Session != nil {
		return o.Session.LeastSignificantBit
	}

	return 0
}

// resolvedParams flattens the options that shaped a rebuild into the
// provenance parameter map.
func (o *Options) resolvedParams() map[string]string {
	params := map[string]string{
		"format":   strings.ToLower(strings.TrimSpace(o.Format)),
		"basepath": o.Basepath,
		"basename": o.Basename,
	}

	if o.ClusteringPath != "" {
		params["clusteringPath"] = o.ClusteringPath
	}
	if o.ElectrodeGroups != nil {
		ids := make([]string, len(o.ElectrodeGroups))
		for i, g := range o.ElectrodeGroups {
			ids[i] = strconv.Itoa(g)
		}
		params["electrodeGroups"] = strings.Join(ids, ",")
	}
	if o.LabelsToInclude != nil {
		params["labelsToInclude"] = strings.Join(o.LabelsToInclude, ",")
	}
	if lsb := o.lsb(); lsb > 0 {
		params["leastSignificantBit"] = strconv.FormatFloat(lsb, 'g', -1, 64)
	}
	params["saveOutput"] = strconv.FormatBool(o.SaveOutput)
	params["forceReload"] = strconv.FormatBool(o.ForceReload)

	return params
}

// ImportSpikes loads or rebuilds the spike collection for one recording.
//
// Reuse applies when a persisted collection exists, ForceReload is false
// and its version is still supported; a reused collection involves zero
// adapter invocations and zero source-file reads. Any other case rebuilds
// through the format adapter. The unit filter, when provided, runs last on
// either path.
//
// Returns:
//   - *collection.Collection: The imported collection
//   - error: errs.ErrUnsupportedFormat or errs.ErrNotImplemented for bad
//     format keys, adapter errors on rebuild failure. Nothing is persisted
//     when the rebuild fails.
func ImportSpikes(opts Options) (*collection.Collection, error) {
	logger := opts.logger()

	// Format dispatch resolves first; an unknown or reserved key fails
	// before any file access on either path.
	adapter, err := adapters.Lookup(opts.Format)
	if err != nil {
		return nil, err
	}

	if opts.ExistingCollection != nil && !opts.ForceReload {
		return finish(opts.ExistingCollection, opts, logger)
	}

	st, err := resolveStore(opts, logger)
	if err != nil {
		return nil, err
	}

	if st != nil && !opts.ForceReload && st.Exists(opts.Basename) {
		col, err := st.Load(opts.Basename)
		if err == nil {
			logger.WithField("action", "import_spikes").
				WithField("basename", opts.Basename).
				Debug("reusing persisted collection")

			return finish(col, opts, logger)
		}

		// Stale or unreadable cache is an internal signal, not a failure;
		// fall through to a rebuild.
		logger.WithField("action", "import_spikes").
			WithField("basename", opts.Basename).
			WithError(err).
			Warn("persisted collection unusable, rebuilding")
	}

	col, err := rebuild(adapter, opts, logger)
	if err != nil {
		return nil, err
	}

	if opts.SaveOutput {
		if st == nil {
			logger.WithField("action", "import_spikes").
				Warn("saveOutput set but no store available")
		} else if err := st.Save(col); err != nil {
			// Persistence failure downgrades to a warning; the in-memory
			// collection is still good.
			logger.WithField("action", "import_spikes").
				WithField("basename", opts.Basename).
				WithError(err).
				Warn("failed to persist collection")
		}
	}

	return finish(col, opts, logger)
}

func resolveStore(opts Options, logger logrus.FieldLogger) (*store.Store, error) {
	if opts.Store != nil {
		return opts.Store, nil
	}

	if opts.Basepath == "" {
		return nil, nil
	}

	return store.New(opts.Basepath, store.WithLogger(logger))
}

func rebuild(adapter adapters.Adapter, opts Options, logger logrus.FieldLogger) (*collection.Collection, error) {
	units, err := adapter.Load(adapters.Params{
		Basepath:            opts.Basepath,
		ClusteringPath:      opts.ClusteringPath,
		Basename:            opts.Basename,
		Session:             opts.Session,
		Columnar:            opts.Columnar,
		Hierarchical:        opts.Hierarchical,
		LabelsToInclude:     opts.LabelsToInclude,
		ElectrodeGroups:     opts.ElectrodeGroups,
		LeastSignificantBit: opts.lsb(),
		RawClusters:         opts.RawClusters,
		Workers:             opts.Workers,
		Logger:              logger,
	})
	if err != nil {
		return nil, fmt.Errorf("load %s units: %w", adapter.Name(), err)
	}

	sr := 0.0
	if opts.Session != nil {
		sr = opts.Session.SamplingRate
	}

	col, err := collection.Assemble(opts.Basename, sr, units)
	if err != nil {
		return nil, err
	}

	if (opts.ExtractWaveformsFromRaw || opts.ExtractWaveformsFromSource) && !adapter.SuppliesWaveforms() {
		if opts.Extractor == nil {
			logger.WithField("action", "import_spikes").
				Warn("waveform extraction requested but no extractor provided")
		} else if err := opts.Extractor.Extract(col, opts.Session); err != nil {
			return nil, fmt.Errorf("extract waveforms: %w", err)
		}
	}

	col.Processing = collection.Stamp("importSpikes", opts.resolvedParams())

	logger.WithField("action", "import_spikes").
		WithField("basename", opts.Basename).
		WithField("format", string(adapter.Name())).
		WithField("numcells", col.Numcells()).
		Debug("rebuilt collection from sorter output")

	return col, nil
}

// finish applies the unit filter, the last step on both paths.
func finish(col *collection.Collection, opts Options, logger logrus.FieldLogger) (*collection.Collection, error) {
	if opts.Filter != nil && !opts.Filter.IsZero() {
		col.Filter(*opts.Filter, logger)
	}

	return col, nil
}
