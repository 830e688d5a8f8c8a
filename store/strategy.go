package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Strategy performs the file I/O for one persisted collection. The on-disk
// format is identical across strategies; they differ only in how the bytes
// move.
type Strategy interface {
	// Write persists data at path atomically.
	Write(path string, data []byte) error

	// Read returns the full file contents at path.
	Read(path string) ([]byte, error)
}

// SingleFileStrategy writes and reads the whole blob in one call. The
// default below LargePayloadThreshold.
type SingleFileStrategy struct{}

func (s *SingleFileStrategy) Write(path string, data []byte) error {
	return writeAtomic(path, func(f *os.File) error {
		_, err := f.Write(data)

		return err
	})
}

func (s *SingleFileStrategy) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultChunkSize is the write granularity of the chunked strategy.
const DefaultChunkSize = 64 << 20

// ChunkedStrategy moves the blob in fixed-size chunks, keeping individual
// write syscalls bounded for multi-gigabyte collections.
type ChunkedStrategy struct {
	// ChunkSize is the per-write size in bytes. Zero means DefaultChunkSize.
	ChunkSize int
}

func (s *ChunkedStrategy) chunkSize() int {
	if s.ChunkSize > 0 {
		return s.ChunkSize
	}

	return DefaultChunkSize
}

func (s *ChunkedStrategy) Write(path string, data []byte) error {
	size := s.chunkSize()

	return writeAtomic(path, func(f *os.File) error {
		for off := 0; off < len(data); off += size {
			end := off + size
			if end > len(data) {
				end = len(data)
			}

			if _, err := f.Write(data[off:end]); err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *ChunkedStrategy) Read(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, info.Size())
	buf := make([]byte, s.chunkSize())
	for {
		n, err := f.Read(buf)
		data = append(data, buf[:n]...)
		if err == io.EOF {
			return data, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// writeAtomic writes through a temp file in the target directory and
// renames it over path, so readers never observe a partial file.
func writeAtomic(path string, write func(f *os.File) error) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if err := write(tmp); err != nil {
		cleanup()

		return err
	}

	if err := tmp.Sync(); err != nil {
		cleanup()

		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)

		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}

	return nil
}
