package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// tmpPrefix marks in-flight writes. Such files are never valid identifiers
// returned by Get because Put renames them away before returning.
const tmpPrefix = ".tmp-"

// FileStore implements Store using the local filesystem.
// Each blob is a single file at {baseDir}/{id}.
type FileStore struct {
	baseDir string
	mu      sync.RWMutex
}

// Compile-time interface check.
var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-based blob store.
// The directory is created if it does not exist.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, ErrInvalidBaseDir
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	return &FileStore{
		baseDir: baseDir,
	}, nil
}

// Dir returns the directory blobs are stored in.
func (fs *FileStore) Dir() string { return fs.baseDir }

// filePath returns the full file path for an identifier.
func (fs *FileStore) filePath(id string) string {
	return filepath.Join(fs.baseDir, id)
}

// Put writes the blob to a temporary file in the store directory and
// renames it over the target, so a concurrent Get sees either the old or
// the new content.
func (fs *FileStore) Put(id string, blob []byte) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if strings.HasPrefix(id, tmpPrefix) {
		return fmt.Errorf("%w: %q uses a reserved prefix", ErrInvalidID, id)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	tmp, err := os.CreateTemp(fs.baseDir, tmpPrefix+"*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write %s: %w", ErrIOFailure, id, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: sync %s: %w", ErrIOFailure, id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrIOFailure, id, err)
	}
	if err := os.Rename(tmpPath, fs.filePath(id)); err != nil {
		return fmt.Errorf("%w: rename %s: %w", ErrIOFailure, id, err)
	}

	success = true
	return nil
}

// Get retrieves the blob stored under id.
func (fs *FileStore) Get(id string) ([]byte, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, err := os.ReadFile(fs.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	return data, nil
}

// Has checks if a blob exists under id.
func (fs *FileStore) Has(id string) (bool, error) {
	if err := ValidateID(id); err != nil {
		return false, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	info, err := os.Stat(fs.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	return info.Mode().IsRegular(), nil
}

// Size returns the size in bytes of the blob stored under id.
func (fs *FileStore) Size(id string) (int64, error) {
	if err := ValidateID(id); err != nil {
		return 0, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	info, err := os.Stat(fs.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return 0, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	return info.Size(), nil
}
