// Package store persists spike collections as single binary files and
// loads them back, bit-exact.
//
// One collection maps to one file, "<basename>.spikes.skc" inside the
// store directory. The file layout is a fixed 64-byte header, the
// basename, a fixed-size per-unit index with delta-encoded payload
// offsets, the compressed times payload and the compressed meta payload.
// See the section package for the exact byte layout.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/neurokit/spikekit/collection"
	"github.com/neurokit/spikekit/errs"
	"github.com/neurokit/spikekit/format"
	"github.com/neurokit/spikekit/internal/hash"
	"github.com/neurokit/spikekit/internal/options"
)

// FileExtension is the suffix of persisted collection files.
const FileExtension = ".spikes.skc"

// LargePayloadThreshold is the encoded size above which Save switches from
// the single-write strategy to the chunked strategy.
const LargePayloadThreshold = 2 << 30

// Store reads and writes persisted collections under one directory.
type Store struct {
	dir    string
	logger logrus.FieldLogger

	timesCompression format.CompressionType
	metaCompression  format.CompressionType

	// strategy overrides the size-based strategy selection when non-nil.
	strategy       Strategy
	largeThreshold int64
}

// Option configures a Store.
type Option = options.Option[*Store]

// WithLogger sets the logger used for store operations.
func WithLogger(logger logrus.FieldLogger) Option {
	return options.NoError(func(s *Store) {
		s.logger = logger
	})
}

// WithTimesCompression selects the codec for the times payload.
func WithTimesCompression(c format.CompressionType) Option {
	return options.New(func(s *Store) error {
		if !c.IsValid() {
			return fmt.Errorf("invalid times compression: %s", c)
		}
		s.timesCompression = c

		return nil
	})
}

// WithMetaCompression selects the codec for the meta payload.
func WithMetaCompression(c format.CompressionType) Option {
	return options.New(func(s *Store) error {
		if !c.IsValid() {
			return fmt.Errorf("invalid meta compression: %s", c)
		}
		s.metaCompression = c

		return nil
	})
}

// WithStrategy pins the I/O strategy, bypassing size-based selection.
func WithStrategy(strategy Strategy) Option {
	return options.NoError(func(s *Store) {
		s.strategy = strategy
	})
}

// WithLargePayloadThreshold overrides the size at which Save switches to
// the chunked strategy.
func WithLargePayloadThreshold(threshold int64) Option {
	return options.New(func(s *Store) error {
		if threshold <= 0 {
			return fmt.Errorf("invalid large payload threshold: %d", threshold)
		}
		s.largeThreshold = threshold

		return nil
	})
}

// New creates a Store rooted at dir.
//
// Defaults: zstd compression for both payloads, size-based strategy
// selection with the 2 GiB threshold, discarded logs.
func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("store directory is empty")
	}

	s := &Store{
		dir:              dir,
		timesCompression: format.CompressionZstd,
		metaCompression:  format.CompressionZstd,
		largeThreshold:   LargePayloadThreshold,
	}

	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	if s.logger == nil {
		logger := logrus.New()
		logger.SetOutput(nopWriter{})
		s.logger = logger
	}

	return s, nil
}

type nopWriter struct{}

func (nopWriter) Write(b []byte) (int, error) { return len(b), nil }

// Path returns the file path a collection with the given basename
// persists to.
func (s *Store) Path(basename string) string {
	return filepath.Join(s.dir, basename+FileExtension)
}

// collectionID is the stable log identity of one (directory, basename)
// pair.
func (s *Store) collectionID(basename string) string {
	return fmt.Sprintf("%016x", hash.ID(filepath.Join(s.dir, basename)))
}

// Exists reports whether a persisted collection is present for basename.
func (s *Store) Exists(basename string) bool {
	_, err := os.Stat(s.Path(basename))

	return err == nil
}

// Save encodes and writes the collection.
//
// The strategy is picked by encoded size unless one was pinned with
// WithStrategy. The write is atomic: a rename over the final path, so a
// crash never leaves a truncated collection behind.
func (s *Store) Save(col *collection.Collection) error {
	data, err := encodeCollection(col, s.timesCompression, s.metaCompression)
	if err != nil {
		return fmt.Errorf("encode collection %q: %w", col.Basename, err)
	}

	strategy := s.strategy
	if strategy == nil {
		if int64(len(data)) > s.largeThreshold {
			strategy = &ChunkedStrategy{}
		} else {
			strategy = &SingleFileStrategy{}
		}
	}

	path := s.Path(col.Basename)
	if err := strategy.Write(path, data); err != nil {
		return fmt.Errorf("write collection %q: %w", col.Basename, err)
	}

	s.logger.WithField("action", "save_collection").
		WithField("collection_id", s.collectionID(col.Basename)).
		WithField("basename", col.Basename).
		WithField("bytes", len(data)).
		WithField("numcells", col.Numcells()).
		Debug("saved spike collection")

	return nil
}

// Load reads and decodes the persisted collection for basename.
//
// Returns:
//   - *collection.Collection: Decoded collection
//   - error: ErrCollectionNotFound if no file exists, ErrStaleCollection
//     if it was written by a version older than MinSupportedVersion,
//     ErrChecksumMismatch on payload corruption
func (s *Store) Load(basename string) (*collection.Collection, error) {
	path := s.Path(basename)

	strategy := s.strategy
	if strategy == nil {
		strategy = &SingleFileStrategy{}
	}

	data, err := strategy.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errs.ErrCollectionNotFound, path)
		}

		return nil, fmt.Errorf("read collection %q: %w", basename, err)
	}

	col, err := decodeCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode collection %q: %w", basename, err)
	}

	s.logger.WithField("action", "load_collection").
		WithField("collection_id", s.collectionID(basename)).
		WithField("basename", col.Basename).
		WithField("numcells", col.Numcells()).
		Debug("loaded spike collection")

	return col, nil
}
