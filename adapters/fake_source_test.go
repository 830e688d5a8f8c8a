package adapters

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/neurokit/spikekit/source"
)

// fakeColumnar serves arrays and label tables keyed by file basename and
// records the order of read attempts.
type fakeColumnar struct {
	arrays map[string]*source.Array
	labels map[string]map[int64]string

	mu    sync.Mutex
	reads []string
}

func (f *fakeColumnar) record(path string) string {
	name := filepath.Base(path)

	f.mu.Lock()
	f.reads = append(f.reads, name)
	f.mu.Unlock()

	return name
}

func (f *fakeColumnar) ReadArray(path string) (*source.Array, error) {
	name := f.record(path)

	if arr, ok := f.arrays[name]; ok {
		return arr, nil
	}

	return nil, fmt.Errorf("%w: %s", fs.ErrNotExist, name)
}

func (f *fakeColumnar) ReadLabels(path string) (map[int64]string, error) {
	name := f.record(path)

	if labels, ok := f.labels[name]; ok {
		return labels, nil
	}

	return nil, fmt.Errorf("%w: %s", fs.ErrNotExist, name)
}

// fakeHierarchical serves datasets keyed by container basename, then by
// dataset path.
type fakeHierarchical struct {
	files map[string]map[string]*source.Array
}

func (f *fakeHierarchical) ReadDataset(path string, dataset string) (*source.Array, error) {
	name := filepath.Base(path)

	file, ok := f.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", fs.ErrNotExist, name)
	}

	arr, ok := file[dataset]
	if !ok {
		return nil, fmt.Errorf("%w: %s:%s", fs.ErrNotExist, name, dataset)
	}

	return arr, nil
}

func testSession() *source.SessionMetadata {
	return &source.SessionMetadata{
		SamplingRate:    20000,
		ChannelCount:    8,
		ElectrodeGroups: [][]int{{0, 1, 2, 3}, {4, 5, 6, 7}},
	}
}
