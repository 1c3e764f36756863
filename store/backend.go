package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Backend holds the serialized form of one collection.
type Backend interface {
	// Load returns the last saved payload, or an error matching ErrNoData
	// when nothing was ever saved.
	Load() ([]byte, error)
	// Save replaces the payload as a whole.
	Save(data []byte) error
	// Location names the backend in logs and errors.
	Location() string
}

// FileBackend keeps a collection in a single file.
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend for path. The file is not touched until
// the first Load or Save.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (f *FileBackend) Location() string { return f.path }

func (f *FileBackend) Load() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", f.path, ErrNoData)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save writes data next to the target and renames it into place so readers
// never observe a half-written file.
func (f *FileBackend) Save(data []byte) error {
	dir := filepath.Dir(f.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
