package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var bucketBlobs = []byte("blobs")

// BoltStore implements Store on a single bbolt database file.
// Every Put is its own write transaction, which gives the same
// all-or-nothing visibility as FileStore's rename.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if dbPath == "" {
		return nil, ErrInvalidBaseDir
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("%w: create directory: %w", ErrIOFailure, err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: open bolt db: %w", ErrIOFailure, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketBlobs); err != nil {
			return fmt.Errorf("boltstore: create bucket %q: %w", bucketBlobs, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Put stores blob under id, replacing any previous value.
func (s *BoltStore) Put(id string, blob []byte) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketBlobs).Put([]byte(id), blob)
	})
	if err != nil {
		return fmt.Errorf("%w: put %s: %w", ErrIOFailure, id, err)
	}
	return nil
}

// Get retrieves the blob stored under id. The returned slice is a copy
// and remains valid after the read transaction ends.
func (s *BoltStore) Get(id string) ([]byte, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketBlobs).Get([]byte(id))
		if v == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		out = make([]byte, len(v))
		copy(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Has reports whether a blob exists under id.
func (s *BoltStore) Has(id string) (bool, error) {
	if err := ValidateID(id); err != nil {
		return false, err
	}
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket(bucketBlobs).Get([]byte(id)) != nil
		return nil
	})
	return found, err
}

// Size returns the length of the blob stored under id.
func (s *BoltStore) Size(id string) (int64, error) {
	if err := ValidateID(id); err != nil {
		return 0, err
	}
	var size int64
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketBlobs).Get([]byte(id))
		if v == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		size = int64(len(v))
		return nil
	})
	return size, err
}
