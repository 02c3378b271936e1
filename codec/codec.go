// Package codec implements the at-rest framing for stored payloads:
//
//	blob = IV(16B) || AES-128-CBC(PKCS#7(plaintext))
//
// The framing carries no version tag and no authentication tag. It provides
// confidentiality only; a modified blob is detected solely through its
// length or padding, and padding checks are not constant-time. Adding a MAC
// would change the stored format, so it is deliberately not done here.
package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

const (
	// BlockSize is the AES block size in bytes.
	BlockSize = aes.BlockSize

	// IVLen is the length of the IV prefix in bytes.
	IVLen = aes.BlockSize

	// MinBlobLen is the shortest well-formed blob: IV plus one padding block.
	MinBlobLen = IVLen + BlockSize
)

// Encrypt pads plaintext and encrypts it under key with a fresh random IV.
// Returns IV || ciphertext. An empty plaintext yields a MinBlobLen blob.
func Encrypt(key Key, plaintext []byte) ([]byte, error) {
	return EncryptWithReader(key, plaintext, rand.Reader)
}

// EncryptWithReader is Encrypt with the IV drawn from r.
// r must be a cryptographically secure source outside of tests.
func EncryptWithReader(key Key, plaintext []byte, r io.Reader) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("codec: AES cipher creation failed: %w", err)
	}

	padded := Pad(plaintext)
	out := make([]byte, IVLen+len(padded))
	iv := out[:IVLen]
	if _, err := io.ReadFull(r, iv); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEntropy, err)
	}

	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[IVLen:], padded)
	clear(padded)
	return out, nil
}

// Decrypt splits the IV from blob, decrypts the remainder under key and
// strips the padding. On failure no plaintext is returned.
func Decrypt(key Key, blob []byte) ([]byte, error) {
	if err := ValidateFrame(blob); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("codec: AES cipher creation failed: %w", err)
	}

	iv := blob[:IVLen]
	ct := blob[IVLen:]
	buf := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(buf, ct)

	plaintext, err := Unpad(buf)
	if err != nil {
		clear(buf)
		return nil, err
	}
	return plaintext, nil
}

// ValidateFrame checks the structural rules of a blob without decrypting:
// an IV must be present and the remainder must be a positive number of
// whole blocks.
func ValidateFrame(blob []byte) error {
	if len(blob) < IVLen {
		return &FormatError{Len: len(blob), Reason: "too short to hold an IV"}
	}
	ct := len(blob) - IVLen
	if ct == 0 || ct%BlockSize != 0 {
		return &FormatError{Len: len(blob), Reason: "ciphertext is not a positive multiple of the block size"}
	}
	return nil
}
