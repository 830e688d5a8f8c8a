package spikekit_test

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neurokit/spikekit"
	"github.com/neurokit/spikekit/collection"
	"github.com/neurokit/spikekit/errs"
	"github.com/neurokit/spikekit/source"
)

// countingReader serves phy-style arrays keyed by basename and counts
// every read attempt, so cache tests can assert zero source access.
type countingReader struct {
	arrays map[string]*source.Array
	labels map[string]map[int64]string
	reads  int
}

func (r *countingReader) ReadArray(path string) (*source.Array, error) {
	r.reads++
	if arr, ok := r.arrays[filepath.Base(path)]; ok {
		return arr, nil
	}

	return nil, fmt.Errorf("%w: %s", fs.ErrNotExist, filepath.Base(path))
}

func (r *countingReader) ReadLabels(path string) (map[int64]string, error) {
	r.reads++
	if labels, ok := r.labels[filepath.Base(path)]; ok {
		return labels, nil
	}

	return nil, fmt.Errorf("%w: %s", fs.ErrNotExist, filepath.Base(path))
}

func phyReader() *countingReader {
	return &countingReader{
		arrays: map[string]*source.Array{
			"spike_times.npy":    source.IntVector([]int64{100, 500, 1000, 2000}),
			"spike_clusters.npy": source.IntVector([]int64{7, 7, 7, 9}),
		},
		labels: map[string]map[int64]string{
			"cluster_group.tsv": {7: "good", 9: "mua"},
		},
	}
}

func session() *source.SessionMetadata {
	return &source.SessionMetadata{SamplingRate: 20000, ChannelCount: 4, ElectrodeGroups: [][]int{{0, 1, 2, 3}}}
}

func TestImportSpikesCustomFormat(t *testing.T) {
	dir := t.TempDir()

	col, err := spikekit.ImportSpikes(spikekit.Options{
		Basepath:    dir,
		Format:      "custom",
		Basename:    "sess01",
		RawClusters: [][]float64{{0.1, 0.2}, {1.5}},
		SaveOutput:  true,
	})
	require.NoError(t, err)

	require.Equal(t, 2, col.Numcells())
	require.Equal(t, 1, col.Units[0].UID)
	require.Equal(t, int64(1), col.Units[0].CluID)
	require.Equal(t, 2, col.Units[0].Total)
	require.Equal(t, 2, col.Units[1].UID)
	require.Equal(t, int64(2), col.Units[1].CluID)
	require.Equal(t, 1, col.Units[1].Total)

	require.Equal(t, "importSpikes", col.Processing.Function)
	require.Equal(t, spikekit.Version, col.Processing.Version)
	require.Equal(t, "custom", col.Processing.Params["format"])

	// SaveOutput persisted the collection.
	_, err = os.Stat(filepath.Join(dir, "sess01.spikes.skc"))
	require.NoError(t, err)
}

func TestImportSpikesCacheHit(t *testing.T) {
	dir := t.TempDir()
	reader := phyReader()

	first, err := spikekit.ImportSpikes(spikekit.Options{
		Basepath:   dir,
		Format:     "phy",
		Basename:   "sess01",
		Session:    session(),
		Columnar:   reader,
		SaveOutput: true,
	})
	require.NoError(t, err)
	require.Positive(t, reader.reads)

	// The second import must come from the persisted file: zero source
	// reads, same collection content.
	reader.reads = 0
	second, err := spikekit.ImportSpikes(spikekit.Options{
		Basepath: dir,
		Format:   "phy",
		Basename: "sess01",
		Session:  session(),
		Columnar: reader,
	})
	require.NoError(t, err)
	require.Zero(t, reader.reads)

	require.Equal(t, first.Numcells(), second.Numcells())
	for i := range first.Units {
		require.Equal(t, first.Units[i].Times, second.Units[i].Times)
		require.Equal(t, first.Units[i].CluID, second.Units[i].CluID)
	}
}

func TestImportSpikesForceReload(t *testing.T) {
	dir := t.TempDir()
	reader := phyReader()

	_, err := spikekit.ImportSpikes(spikekit.Options{
		Basepath:   dir,
		Format:     "phy",
		Basename:   "sess01",
		Session:    session(),
		Columnar:   reader,
		SaveOutput: true,
	})
	require.NoError(t, err)

	reader.reads = 0
	_, err = spikekit.ImportSpikes(spikekit.Options{
		Basepath:    dir,
		Format:      "phy",
		Basename:    "sess01",
		Session:     session(),
		Columnar:    reader,
		ForceReload: true,
	})
	require.NoError(t, err)
	require.Positive(t, reader.reads)
}

func TestImportSpikesStaleCacheRebuilds(t *testing.T) {
	dir := t.TempDir()
	reader := phyReader()

	_, err := spikekit.ImportSpikes(spikekit.Options{
		Basepath:   dir,
		Format:     "phy",
		Basename:   "sess01",
		Session:    session(),
		Columnar:   reader,
		SaveOutput: true,
	})
	require.NoError(t, err)

	// Age the persisted file below the minimum supported version.
	path := filepath.Join(dir, "sess01.spikes.skc")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[4], data[5], data[6] = 1, 0, 0
	require.NoError(t, os.WriteFile(path, data, 0o644))

	reader.reads = 0
	col, err := spikekit.ImportSpikes(spikekit.Options{
		Basepath: dir,
		Format:   "phy",
		Basename: "sess01",
		Session:  session(),
		Columnar: reader,
	})
	require.NoError(t, err)
	require.Positive(t, reader.reads)
	require.Equal(t, 2, col.Numcells())
}

func TestImportSpikesUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	reader := phyReader()

	_, err := spikekit.ImportSpikes(spikekit.Options{
		Basepath:   dir,
		Format:     "doesnotexist",
		Basename:   "sess01",
		Session:    session(),
		Columnar:   reader,
		SaveOutput: true,
	})
	require.ErrorIs(t, err, errs.ErrUnsupportedFormat)
	require.Zero(t, reader.reads)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestImportSpikesReservedFormat(t *testing.T) {
	reader := phyReader()

	_, err := spikekit.ImportSpikes(spikekit.Options{
		Basepath: t.TempDir(),
		Format:   "spykingcircus",
		Basename: "sess01",
		Session:  session(),
		Columnar: reader,
	})
	require.ErrorIs(t, err, errs.ErrNotImplemented)
	require.Zero(t, reader.reads)
}

func TestImportSpikesAdapterFailurePersistsNothing(t *testing.T) {
	dir := t.TempDir()

	_, err := spikekit.ImportSpikes(spikekit.Options{
		Basepath:   dir,
		Format:     "phy",
		Basename:   "sess01",
		Session:    session(),
		Columnar:   &countingReader{},
		SaveOutput: true,
	})
	require.ErrorIs(t, err, errs.ErrMissingSourceFile)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestImportSpikesFilter(t *testing.T) {
	col, err := spikekit.ImportSpikes(spikekit.Options{
		Format:      "custom",
		Basename:    "sess01",
		RawClusters: [][]float64{{0.1, 0.2}, {1.5}, {2.0}},
		Filter:      &collection.Criteria{UID: []int{1, 3}},
	})
	require.NoError(t, err)

	require.Equal(t, 2, col.Numcells())
	require.Equal(t, 3, col.NumcellsOrig)
	require.Equal(t, []int{1, 3}, []int{col.Units[0].UID, col.Units[1].UID})
}

func TestImportSpikesExistingCollection(t *testing.T) {
	existing, err := collection.Assemble("sess01", 20000, []collection.Unit{
		{CluID: 1, ShankID: 1, Times: []float64{0.1}},
		{CluID: 2, ShankID: 2, Times: []float64{0.2}},
	})
	require.NoError(t, err)

	reader := phyReader()
	col, err := spikekit.ImportSpikes(spikekit.Options{
		Format:             "phy",
		Basename:           "sess01",
		ExistingCollection: existing,
		Columnar:           reader,
		Filter:             &collection.Criteria{ShankID: []int{2}},
	})
	require.NoError(t, err)

	require.Same(t, existing, col)
	require.Zero(t, reader.reads)
	require.Equal(t, 1, col.Numcells())
	require.Equal(t, 2, col.Units[0].UID)
}

// addWaveforms is a fake extractor that stamps a fixed waveform on every
// unit.
type addWaveforms struct {
	calls int
	err   error
}

func (e *addWaveforms) Extract(col *collection.Collection, meta *source.SessionMetadata) error {
	e.calls++
	if e.err != nil {
		return e.err
	}

	for i := range col.Units {
		col.Units[i].RawWaveform = &collection.Waveform{Mean: [][]float64{{1, 2, 3}}}
		col.Units[i].SetPeakVoltage(100)
	}

	return nil
}

func TestImportSpikesWaveformExtraction(t *testing.T) {
	extractor := &addWaveforms{}

	col, err := spikekit.ImportSpikes(spikekit.Options{
		Format:                  "custom",
		Basename:                "sess01",
		RawClusters:             [][]float64{{0.1}},
		ExtractWaveformsFromRaw: true,
		Extractor:               extractor,
	})
	require.NoError(t, err)
	require.Equal(t, 1, extractor.calls)
	require.NotNil(t, col.Units[0].RawWaveform)
	require.True(t, col.Units[0].HasPeakVoltage)
}

func TestImportSpikesWaveformExtractorFailureAborts(t *testing.T) {
	dir := t.TempDir()
	extractor := &addWaveforms{err: fmt.Errorf("raw recording unreadable")}

	_, err := spikekit.ImportSpikes(spikekit.Options{
		Basepath:                dir,
		Format:                  "custom",
		Basename:                "sess01",
		RawClusters:             [][]float64{{0.1}},
		ExtractWaveformsFromRaw: true,
		Extractor:               extractor,
		SaveOutput:              true,
	})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestImportSpikesWaveformExtractionSkippedWhenNotRequested(t *testing.T) {
	extractor := &addWaveforms{}

	_, err := spikekit.ImportSpikes(spikekit.Options{
		Format:      "custom",
		Basename:    "sess01",
		RawClusters: [][]float64{{0.1}},
		Extractor:   extractor,
	})
	require.NoError(t, err)
	require.Zero(t, extractor.calls)
}
