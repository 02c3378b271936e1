package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat indicates a blob whose length cannot be an IV-prefixed
	// sequence of whole cipher blocks.
	ErrFormat = errors.New("codec: malformed blob")

	// ErrPadding indicates the decrypted final block does not carry valid
	// PKCS#7 padding. A wrong key almost always surfaces as this error.
	ErrPadding = errors.New("codec: invalid padding")

	// ErrInvalidKeyLength indicates a key that is not exactly 16 bytes.
	ErrInvalidKeyLength = errors.New("codec: key must be 16 bytes")

	// ErrInvalidKeyHex indicates a key string that is not valid hex.
	ErrInvalidKeyHex = errors.New("codec: key is not valid hex")

	// ErrEntropy indicates the random source failed to produce an IV.
	ErrEntropy = errors.New("codec: random IV generation failed")
)

// FormatError describes a structurally invalid blob.
type FormatError struct {
	Len    int    // length of the rejected blob
	Reason string // which framing rule was violated
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s (got %d bytes)", ErrFormat, e.Reason, e.Len)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// PaddingError describes a padding failure after block decryption.
type PaddingError struct {
	PadByte byte // value of the trailing byte
}

func (e *PaddingError) Error() string {
	return fmt.Sprintf("%s (trailing byte 0x%02x)", ErrPadding, e.PadByte)
}

func (e *PaddingError) Unwrap() error { return ErrPadding }
