// Package catalog maps stored identifiers to the display metadata of the
// payload behind them. The whole mapping lives in one pretty-printed JSON
// document that is read in full, mutated, and rewritten on every change:
//
//	{
//	  "report.pdf.enc": {
//	    "original_filename": "report.pdf",
//	    "size": 4128
//	  }
//	}
//
// Mutations are serialised in-process by a mutex and across processes by
// an advisory lock on a sibling ".lock" file. The document itself is
// replaced by rename, so a crash mid-write leaves the previous version.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// DefaultFileName is the catalog document name inside a data directory.
const DefaultFileName = "metadata.json"

// Record is the display metadata for one stored blob.
type Record struct {
	OriginalFilename string `json:"original_filename"`
	Size             int64  `json:"size"` // length of the framed ciphertext
}

// Mapping is the full catalog, keyed by stored identifier.
type Mapping map[string]Record

// Entry is a Record together with its stored identifier.
type Entry struct {
	StoredName string
	Record
}

// Catalog persists a Mapping as a JSON document.
type Catalog struct {
	path              string
	lockPath          string
	logger            *slog.Logger
	resetOnParseError bool

	mu sync.Mutex
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger used to report recovered parse errors.
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithResetOnParseError controls what Upsert does when the existing
// document cannot be parsed. When true (the default) it logs a warning
// and starts again from an empty mapping, discarding the unreadable
// records. When false it returns the *ParseError and writes nothing.
func WithResetOnParseError(reset bool) Option {
	return func(c *Catalog) { c.resetOnParseError = reset }
}

// Open returns a Catalog backed by the document at path. The parent
// directory is created if needed; the document itself is created on the
// first Save or Upsert.
func Open(path string, opts ...Option) (*Catalog, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("%w: create directory: %w", ErrIOFailure, err)
	}
	c := &Catalog{
		path:              path,
		lockPath:          path + ".lock",
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		resetOnParseError: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Path returns the document path.
func (c *Catalog) Path() string { return c.path }

// Load reads the full mapping. A missing document yields an empty mapping
// and no error. An unparseable document yields an empty mapping and a
// *ParseError.
func (c *Catalog) Load() (Mapping, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Mapping{}, nil
		}
		return Mapping{}, fmt.Errorf("%w: read %s: %w", ErrIOFailure, c.path, err)
	}

	var m Mapping
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&m); err != nil {
		return Mapping{}, &ParseError{Path: c.path, Err: err}
	}
	if dec.More() {
		return Mapping{}, &ParseError{Path: c.path, Err: errors.New("trailing data after document")}
	}
	if m == nil {
		m = Mapping{}
	}
	return m, nil
}

// Save replaces the document with m.
func (c *Catalog) Save(m Mapping) error {
	return c.withWriteLock(func() error { return c.save(m) })
}

// Upsert inserts or replaces the record for id.
func (c *Catalog) Upsert(id string, rec Record) error {
	if id == "" {
		return ErrEmptyID
	}
	return c.withWriteLock(func() error {
		m, err := c.loadForUpdate()
		if err != nil {
			return err
		}
		m[id] = rec
		return c.save(m)
	})
}

// Lookup returns the record for id. A missing record is reported with
// ok == false rather than an error. An unparseable document is logged and
// treated as having no records.
func (c *Catalog) Lookup(id string) (Record, bool, error) {
	m, err := c.Load()
	if err != nil {
		var pe *ParseError
		if !errors.As(err, &pe) {
			return Record{}, false, err
		}
		c.logger.Warn("catalog unreadable, lookup falls back", "path", c.path, "error", pe.Err)
	}
	rec, ok := m[id]
	return rec, ok, nil
}

// List returns all entries sorted by stored identifier. An unparseable
// document is returned as an error.
func (c *Catalog) List() ([]Entry, error) {
	m, err := c.Load()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(m))
	for id, rec := range m {
		entries = append(entries, Entry{StoredName: id, Record: rec})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].StoredName < entries[j].StoredName })
	return entries, nil
}

// IDs returns the stored identifiers in sorted order.
func (c *Catalog) IDs() ([]string, error) {
	entries, err := c.List()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.StoredName
	}
	return ids, nil
}

// loadForUpdate applies the parse-error policy for read-modify-write.
func (c *Catalog) loadForUpdate() (Mapping, error) {
	m, err := c.Load()
	if err == nil {
		return m, nil
	}
	var pe *ParseError
	if errors.As(err, &pe) && c.resetOnParseError {
		c.logger.Warn("catalog unreadable, discarding previous records", "path", c.path, "error", pe.Err)
		return Mapping{}, nil
	}
	return nil, err
}

// withWriteLock runs fn holding both the in-process mutex and the
// cross-process file lock.
func (c *Catalog) withWriteLock(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fl, err := acquireLock(c.lockPath)
	if err != nil {
		return fmt.Errorf("catalog lock: %w", err)
	}
	defer releaseLock(fl)

	return fn()
}

// save writes m to a temporary file and renames it over the document.
// Callers must hold the write lock.
func (c *Catalog) save(m Mapping) error {
	if m == nil {
		m = Mapping{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("catalog: marshal: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".tmp-*")
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

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write: %w", ErrIOFailure, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ErrIOFailure, err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("%w: rename: %w", ErrIOFailure, err)
	}

	success = true
	return nil
}
