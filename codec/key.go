package codec

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// KeyLen is the AES-128 key length in bytes.
const KeyLen = 16

// Key is a 128-bit AES key. It is passed explicitly to every codec call;
// the package keeps no key state of its own.
type Key [KeyLen]byte

// NewKey copies b into a Key. b must be exactly KeyLen bytes.
func NewKey(b []byte) (Key, error) {
	var k Key
	if len(b) != KeyLen {
		return k, fmt.Errorf("%w: got %d bytes", ErrInvalidKeyLength, len(b))
	}
	copy(k[:], b)
	return k, nil
}

// ParseKeyHex decodes a 32-character hex string into a Key.
// Surrounding whitespace is ignored.
func ParseKeyHex(s string) (Key, error) {
	s = strings.TrimSpace(s)
	if len(s) != 2*KeyLen {
		return Key{}, fmt.Errorf("%w: want %d hex chars, got %d", ErrInvalidKeyLength, 2*KeyLen, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %w", ErrInvalidKeyHex, err)
	}
	return NewKey(b)
}

// Fingerprint returns a short identifier for the key, suitable for logs.
// It is the hex of the first 8 bytes of BLAKE2b-256(key).
func (k Key) Fingerprint() string {
	sum := blake2b.Sum256(k[:])
	return hex.EncodeToString(sum[:8])
}

// String never reveals key material.
func (k Key) String() string {
	return "codec.Key(" + k.Fingerprint() + ")"
}
