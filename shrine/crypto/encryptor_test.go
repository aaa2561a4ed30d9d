package crypto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestEncryptor_RoundTrip(t *testing.T) {
	e := NewEncryptor()
	id := uuid.New()

	blob, err := e.Encrypt([]byte("hunter2"), []byte("passphrase"), id[:], 0)
	require.NoError(t, err)

	plaintext, err := e.Decrypt(blob, []byte("passphrase"), id[:], 0)
	require.NoError(t, err)
	require.Equal(t, []byte("hunter2"), plaintext)
}

func TestEncryptor_WrongPassphrase(t *testing.T) {
	e := NewEncryptor()
	id := uuid.New()

	blob, err := e.Encrypt([]byte("hunter2"), []byte("passphrase"), id[:], 0)
	require.NoError(t, err)

	_, err = e.Decrypt(blob, []byte("wrong"), id[:], 0)
	require.ErrorIs(t, err, ErrAuthFailed)
}

func TestEncryptor_TamperedBlob(t *testing.T) {
	e := NewEncryptor()
	id := uuid.New()

	blob, err := e.Encrypt([]byte("hunter2"), []byte("passphrase"), id[:], 0)
	require.NoError(t, err)

	blob[len(blob)-1] ^= 0xFF

	_, err = e.Decrypt(blob, []byte("passphrase"), id[:], 0)
	require.ErrorIs(t, err, ErrAuthFailed)
}

func TestEncryptor_NondeterministicCiphertext(t *testing.T) {
	e := NewEncryptor()
	id := uuid.New()

	a, err := e.Encrypt([]byte("hunter2"), []byte("passphrase"), id[:], 0)
	require.NoError(t, err)
	b, err := e.Encrypt([]byte("hunter2"), []byte("passphrase"), id[:], 0)
	require.NoError(t, err)

	require.NotEqual(t, a, b, "random per-close nonce should change the ciphertext")
}
