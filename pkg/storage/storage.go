package storage

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
)

// Storage reads and writes files under one output directory.
type Storage struct {
	Dir string
}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

func New(dir string) (*Storage, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "error creating output directory %s", dir)
	}
	return &Storage{Dir: dir}, nil
}

// Path joins name onto the output directory.
func (s *Storage) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

func (s *Storage) SaveFile(name string, content []byte) error {
	if err := os.WriteFile(s.Path(name), content, 0644); err != nil {
		return errors.Wrapf(err, "error saving file %s", name)
	}
	return nil
}

func (s *Storage) HasFile(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// GetFileStats returns metadata about a file using os.Stat (no I/O overhead).
func (s *Storage) GetFileStats(name string) (*FileStats, error) {
	info, err := os.Stat(s.Path(name))
	if err != nil {
		return nil, errors.Wrapf(err, "error getting file stats for %s", name)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}
