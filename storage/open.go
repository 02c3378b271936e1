package storage

import (
	"fmt"
	"io"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendFile = "file"
	BackendBolt = "bolt"
)

// Layout under the data directory.
const (
	FileStoreDir = "uploads_encrypted"
	BoltStoreDB  = "blobs.db"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the Store for backend rooted under dataDir, plus a Closer
// that releases it. The file backend's Closer is a no-op.
func Open(backend, dataDir string) (Store, io.Closer, error) {
	if dataDir == "" {
		return nil, nil, ErrInvalidBaseDir
	}
	switch backend {
	case BackendFile, "":
		fs, err := NewFileStore(filepath.Join(dataDir, FileStoreDir))
		if err != nil {
			return nil, nil, err
		}
		return fs, nopCloser{}, nil
	case BackendBolt:
		bs, err := OpenBoltStore(filepath.Join(dataDir, BoltStoreDB))
		if err != nil {
			return nil, nil, err
		}
		return bs, bs, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
