package vault

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitfsorg/encstore-go/codec"
)

// DownloadResult holds a decrypted payload and the name to offer it under.
type DownloadResult struct {
	StoredName string
	Filename   string // original name, or FallbackName when no record exists
	Data       []byte
	Recorded   bool // whether the catalog had a record for StoredName
}

// Download reads, decrypts and names the payload stored under storedName.
// The name is sanitized first. A missing blob returns ErrNotFound without
// touching the codec; a blob that fails to decrypt returns
// ErrDecryptFailed and no plaintext. A missing catalog record is not an
// error: the payload is returned under FallbackName.
func (v *Vault) Download(storedName string) (*DownloadResult, error) {
	stored := SecureFilename(storedName)
	if stored == "" {
		return nil, fmt.Errorf("%w: %q", ErrEmptyName, storedName)
	}

	blob, err := v.Store.Get(stored)
	if err != nil {
		return nil, fmt.Errorf("vault: fetch %s: %w", stored, err)
	}

	plaintext, err := codec.Decrypt(v.Key, blob)
	if err != nil {
		v.Logger.Warn("stored blob did not decrypt", "stored_name", stored, "blob_bytes", len(blob), "error", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrDecryptFailed, stored, err)
	}

	filename := FallbackName
	rec, ok, err := v.Catalog.Lookup(stored)
	if err != nil {
		v.Logger.Warn("catalog lookup failed, using fallback name", "stored_name", stored, "error", err)
	} else if ok && rec.OriginalFilename != "" {
		filename = rec.OriginalFilename
	}

	v.Logger.Debug("payload retrieved", "stored_name", stored, "blob_bytes", len(blob), "recorded", ok)

	return &DownloadResult{
		StoredName: stored,
		Filename:   filename,
		Data:       plaintext,
		Recorded:   ok,
	}, nil
}

// GetOpts holds options for GetFile.
type GetOpts struct {
	StoredName string
	OutPath    string // destination file; defaults to Filename inside OutDir
	OutDir     string // used when OutPath is empty; defaults to "."
}

// GetFile downloads a payload and writes it to disk with mode 0600.
// It returns the result and the path written.
func (v *Vault) GetFile(opts *GetOpts) (*DownloadResult, string, error) {
	res, err := v.Download(opts.StoredName)
	if err != nil {
		return nil, "", err
	}

	out := opts.OutPath
	if out == "" {
		dir := opts.OutDir
		if dir == "" {
			dir = "."
		}
		// Filename comes from the catalog, which only ever holds
		// sanitized names, but it is re-sanitized before use as a path.
		name := SecureFilename(res.Filename)
		if name == "" {
			name = FallbackName
		}
		out = filepath.Join(dir, name)
	}

	if err := os.WriteFile(out, res.Data, 0600); err != nil {
		return nil, "", fmt.Errorf("vault: write %s: %w", out, err)
	}
	return res, out, nil
}
