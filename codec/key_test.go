package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyHex(t *testing.T) {
	k, err := ParseKeyHex("000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)
	for i := range k {
		assert.Equal(t, byte(i), k[i])
	}
}

func TestParseKeyHex_TrimsWhitespace(t *testing.T) {
	k, err := ParseKeyHex("  00000000000000000000000000000000\n")
	require.NoError(t, err)
	assert.Equal(t, Key{}, k)
}

func TestParseKeyHex_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{"empty", "", ErrInvalidKeyLength},
		{"too short", "0011", ErrInvalidKeyLength},
		{"aes-256 length", strings.Repeat("ab", 32), ErrInvalidKeyLength},
		{"odd length", strings.Repeat("a", 31), ErrInvalidKeyLength},
		{"not hex", strings.Repeat("zz", 16), ErrInvalidKeyHex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseKeyHex(tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewKey_Length(t *testing.T) {
	_, err := NewKey(make([]byte, 15))
	assert.ErrorIs(t, err, ErrInvalidKeyLength)
	_, err = NewKey(make([]byte, 32))
	assert.ErrorIs(t, err, ErrInvalidKeyLength)
	_, err = NewKey(make([]byte, 16))
	assert.NoError(t, err)
}

func TestKey_Fingerprint(t *testing.T) {
	a := testKey(1).Fingerprint()
	b := testKey(2).Fingerprint()

	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, testKey(1).Fingerprint())
}

func TestKey_StringHidesMaterial(t *testing.T) {
	k, err := ParseKeyHex("deadbeefdeadbeefdeadbeefdeadbeef")
	require.NoError(t, err)
	assert.NotContains(t, k.String(), "deadbeef")
	assert.Contains(t, k.String(), k.Fingerprint())
}
