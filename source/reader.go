// Package source declares the external collaborators of the import
// pipeline: file readers for columnar and hierarchical sorter artifacts,
// the resolved session metadata, and the raw-recording waveform extractor.
//
// spikekit never parses NPY, TSV or HDF5-style containers itself; callers
// supply reader implementations and the adapters consume typed arrays.
package source

import (
	"errors"
	"io/fs"
)

// ColumnarReader reads flat typed-array files (NPY-style vectors and
// matrices) and cluster-quality label tables (TSV/CSV).
//
// Missing files must be reported with an error matching fs.ErrNotExist so
// adapters can walk their label-file fallback chains.
type ColumnarReader interface {
	// ReadArray reads one typed-array file.
	ReadArray(path string) (*Array, error)

	// ReadLabels reads a cluster-quality label table mapping sorter-native
	// cluster ids to quality labels ("good", "mua", "noise", ...).
	ReadLabels(path string) (map[int64]string, error)
}

// HierarchicalReader reads one dataset out of a hierarchical container
// file (NWB-style).
//
// The dataset path uses "/" separators, e.g. "units/spike_times".
type HierarchicalReader interface {
	ReadDataset(path string, dataset string) (*Array, error)
}

// IsNotFound reports whether err indicates a missing file or dataset.
func IsNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
