package vault

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitfsorg/encstore-go/catalog"
	"github.com/bitfsorg/encstore-go/codec"
)

// UploadResult describes a stored payload.
type UploadResult struct {
	StoredName       string // identifier the blob and record are kept under
	OriginalFilename string // sanitized name recorded for downloads
	Size             int64  // length of the framed ciphertext
}

// Upload encrypts data and stores it under SecureFilename(name) + ".enc",
// then records the display name and blob size in the catalog. A later
// upload with the same sanitized name replaces both.
//
// Encryption happens before any write. If the catalog update fails after
// the blob was written, the blob stays in place and the error is returned;
// Check will not flag it because Check walks the catalog.
func (v *Vault) Upload(name string, data []byte) (*UploadResult, error) {
	filename := SecureFilename(name)
	if filename == "" {
		return nil, fmt.Errorf("%w: %q", ErrEmptyName, name)
	}
	stored := StoredName(filename)

	blob, err := codec.EncryptWithReader(v.Key, data, v.random())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncryptFailed, err)
	}

	if err := v.Store.Put(stored, blob); err != nil {
		return nil, fmt.Errorf("vault: store %s: %w", stored, err)
	}

	rec := catalog.Record{OriginalFilename: filename, Size: int64(len(blob))}
	if err := v.Catalog.Upsert(stored, rec); err != nil {
		v.Logger.Error("blob stored without catalog record", "stored_name", stored, "error", err)
		return nil, fmt.Errorf("vault: record %s: %w", stored, err)
	}

	v.Logger.Debug("payload stored",
		"stored_name", stored,
		"plaintext_bytes", len(data),
		"blob_bytes", len(blob),
	)

	return &UploadResult{
		StoredName:       stored,
		OriginalFilename: filename,
		Size:             rec.Size,
	}, nil
}

// PutOpts holds options for PutFile.
type PutOpts struct {
	LocalFile string // path of the file to upload
	Name      string // name to store under; defaults to the base name of LocalFile
}

// PutFile reads a local file and uploads it.
func (v *Vault) PutFile(opts *PutOpts) (*UploadResult, error) {
	data, err := os.ReadFile(opts.LocalFile)
	if err != nil {
		return nil, fmt.Errorf("vault: read file: %w", err)
	}
	name := opts.Name
	if name == "" {
		name = filepath.Base(opts.LocalFile)
	}
	return v.Upload(name, data)
}
