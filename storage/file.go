package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FileStore persists each blob as a JSON file in a single directory. Saves
// write to a temporary file in the same directory and rename it into place,
// so a crash mid-write never corrupts the previous snapshot.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store rooted
// at it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Load implements BlobStore.
func (f *FileStore) Load(name string) ([]byte, error) {
	data, err := os.ReadFile(f.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read blob %q: %w", name, err)
	}
	return data, nil
}

// Save implements BlobStore.
func (f *FileStore) Save(name string, data []byte) error {
	tmp, err := os.CreateTemp(f.dir, name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for blob %q: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write blob %q: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync blob %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close blob %q: %w", name, err)
	}

	if err := os.Rename(tmpName, f.path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename blob %q: %w", name, err)
	}

	logrus.WithFields(logrus.Fields{
		"blob": name,
		"size": len(data),
	}).Debug("blob saved")
	return nil
}

// Close implements BlobStore.
func (f *FileStore) Close() error { return nil }

func (f *FileStore) path(name string) string {
	return filepath.Join(f.dir, name+".json")
}
