package storage

// MaxIDLen is the longest accepted stored identifier, matching common
// filesystem name limits.
const MaxIDLen = 255

// Store persists framed ciphertext by stored identifier.
// Identifiers are sanitized names such as "report.pdf.enc"; values are
// opaque blobs. There is no delete and no listing: the catalog is the
// source of truth for which identifiers exist.
type Store interface {
	// Put writes blob under id, replacing any previous content.
	// Readers never observe a partially written blob.
	Put(id string, blob []byte) error

	// Get retrieves the blob stored under id.
	// Returns ErrNotFound if nothing is stored there.
	Get(id string) ([]byte, error)

	// Has reports whether a blob exists under id.
	Has(id string) (bool, error)

	// Size returns the length in bytes of the blob stored under id.
	Size(id string) (int64, error)
}
