// Package vault wires the codec, blob store and catalog into the upload
// and download flows. It is the only package that touches all three;
// callers such as the CLI hand it raw bytes and names and get back
// results or typed errors, never printed output.
package vault

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/bitfsorg/encstore-go/catalog"
	"github.com/bitfsorg/encstore-go/codec"
	"github.com/bitfsorg/encstore-go/config"
	"github.com/bitfsorg/encstore-go/storage"
)

// Vault is the shared business logic layer over one data directory.
type Vault struct {
	Key     codec.Key
	Store   storage.Store
	Catalog *catalog.Catalog
	Logger  *slog.Logger
	DataDir string

	// Rand is the IV source for uploads. Nil means crypto/rand.
	Rand io.Reader

	closer io.Closer
}

// New opens the blob store and catalog described by cfg.
// The caller must Close the returned Vault.
func New(cfg config.Config, key codec.Key, logger *slog.Logger) (*Vault, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = discardLogger()
	}

	store, closer, err := storage.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("vault: init storage: %w", err)
	}

	cat, err := catalog.Open(
		filepath.Join(cfg.DataDir, catalog.DefaultFileName),
		catalog.WithLogger(logger),
		catalog.WithResetOnParseError(!cfg.StrictCatalog),
	)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("vault: open catalog: %w", err)
	}

	logger.Debug("vault opened",
		"data_dir", cfg.DataDir,
		"backend", cfg.Backend,
		"key", key.Fingerprint(),
	)

	return &Vault{
		Key:     key,
		Store:   store,
		Catalog: cat,
		Logger:  logger,
		DataDir: cfg.DataDir,
		closer:  closer,
	}, nil
}

// NewWithParts assembles a Vault from existing components.
// Close does not close store.
func NewWithParts(key codec.Key, store storage.Store, cat *catalog.Catalog, logger *slog.Logger) *Vault {
	if logger == nil {
		logger = discardLogger()
	}
	return &Vault{
		Key:     key,
		Store:   store,
		Catalog: cat,
		Logger:  logger,
	}
}

// Close releases the blob store.
func (v *Vault) Close() error {
	if v.closer == nil {
		return nil
	}
	err := v.closer.Close()
	v.closer = nil
	return err
}

// List returns every catalog entry, sorted by stored name.
func (v *Vault) List() ([]catalog.Entry, error) {
	entries, err := v.Catalog.List()
	if err != nil {
		return nil, fmt.Errorf("vault: list: %w", err)
	}
	return entries, nil
}

// Check verifies that every catalog entry has a well-formed blob.
// It reports missing or malformed blobs; it does not decrypt.
func (v *Vault) Check() ([]storage.Problem, error) {
	ids, err := v.Catalog.IDs()
	if err != nil {
		return nil, fmt.Errorf("vault: check: %w", err)
	}
	problems := storage.Verify(v.Store, ids)
	for _, p := range problems {
		v.Logger.Warn("stored blob problem", "stored_name", p.ID, "missing", p.Missing(), "error", p.Err)
	}
	return problems, nil
}

func (v *Vault) random() io.Reader {
	if v.Rand == nil {
		return rand.Reader
	}
	return v.Rand
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
