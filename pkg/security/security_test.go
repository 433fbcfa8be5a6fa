package security

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestParseKey(t *testing.T) {
	key, err := ParseKey(base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{1}, 32)))
	require.NoError(t, err)
	assert.Len(t, key, 32)

	_, err = ParseKey(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.ErrorIs(t, err, ErrInvalidKeySize)

	_, err = ParseKey("%%%")
	assert.Error(t, err)
}

func TestAESEncryptor(t *testing.T) {
	enc, err := NewAESEncryptor(bytes.Repeat([]byte{1}, 16))
	require.NoError(t, err)

	sealed, err := enc.Encrypt([]byte(`{"accessToken":"abc"}`))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "abc")

	plain, err := enc.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, `{"accessToken":"abc"}`, string(plain))

	other, err := NewAESEncryptor(bytes.Repeat([]byte{2}, 16))
	require.NoError(t, err)
	_, err = other.Decrypt(sealed)
	assert.ErrorIs(t, err, ErrDecryption)

	_, err = enc.Decrypt([]byte("tiny"))
	assert.ErrorIs(t, err, ErrDecryption)
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	hash, err := h.Hash("password123")
	require.NoError(t, err)
	assert.NoError(t, h.Compare(hash, "password123"))
	assert.Error(t, h.Compare(hash, "password124"))
}
