package vault

import (
	"errors"

	"github.com/bitfsorg/encstore-go/storage"
)

var (
	// ErrEmptyName indicates a name with nothing left after sanitizing.
	ErrEmptyName = errors.New("vault: name is empty after sanitizing")

	// ErrNotFound indicates no blob is stored under the requested name.
	// It is the storage sentinel, so either can be used with errors.Is.
	ErrNotFound = storage.ErrNotFound

	// ErrDecryptFailed indicates a stored blob could not be decrypted.
	// The codec error (codec.ErrFormat or codec.ErrPadding) is also
	// wrapped.
	ErrDecryptFailed = errors.New("vault: decryption failed")

	// ErrEncryptFailed indicates the payload could not be encrypted.
	// Nothing is written when this is returned.
	ErrEncryptFailed = errors.New("vault: encryption failed")
)
