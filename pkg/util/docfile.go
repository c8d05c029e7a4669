package util

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/edsrzf/mmap-go"
)

// MappedFile is a read-only view of a file, memory-mapped when possible.
// Data is only valid until Close.
type MappedFile struct {
	Path string
	Data []byte

	region mmap.MMap
	file   *os.File
}

// MapFile maps path read-only. Empty files and files the OS refuses to map
// are read into memory instead.
func MapFile(path string, logger *slog.Logger) (*MappedFile, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file %q: %w", path, err)
	}
	if stat.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%q is a directory", path)
	}

	// Can't mmap zero bytes.
	if stat.Size() == 0 {
		file.Close()
		return &MappedFile{Path: path, Data: []byte{}}, nil
	}

	region, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		logger.Warn("mmap failed, using fallback", "file", path, "size", stat.Size(), "error", err)
		file.Close()
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("mmap failed and fallback failed for %q: mmap error: %v, read error: %w",
				path, err, readErr)
		}
		return &MappedFile{Path: path, Data: data}, nil
	}

	return &MappedFile{Path: path, Data: region, region: region, file: file}, nil
}

// Close unmaps the file. It is safe to call more than once.
func (m *MappedFile) Close() error {
	var firstErr error
	if m.region != nil {
		if err := m.region.Unmap(); err != nil {
			firstErr = fmt.Errorf("unmap %q: %w", m.Path, err)
		}
		m.region = nil
	}
	if m.file != nil {
		if err := m.file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %q: %w", m.Path, err)
		}
		m.file = nil
	}
	m.Data = nil
	return firstErr
}

// ReadMapped maps path, hands the bytes to decode, and unmaps. decode must
// not retain the slice.
func ReadMapped(path string, logger *slog.Logger, decode func([]byte) error) error {
	mf, err := MapFile(path, logger)
	if err != nil {
		return err
	}
	decodeErr := decode(mf.Data)
	closeErr := mf.Close()
	if decodeErr != nil {
		return decodeErr
	}
	return closeErr
}
