package crypto

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 64)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestSIVEngine_EncryptDecrypt(t *testing.T) {
	siv, err := NewSIVEngine(randomKey(t))
	require.NoError(t, err)

	nonce := make([]byte, siv.NonceSize())
	_, err = rand.Read(nonce)
	require.NoError(t, err)

	cases := []struct {
		name      string
		plaintext []byte
		ad        [][]byte
	}{
		{"simple text", []byte("Hello, World!"), nil},
		{"empty plaintext", []byte(""), nil},
		{"with AD", []byte("secret message"), [][]byte{[]byte("context1"), []byte("context2")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ciphertext, err := siv.Encrypt(nonce, tc.plaintext, tc.ad...)
			require.NoError(t, err)

			plaintext, err := siv.Decrypt(nonce, ciphertext, tc.ad...)
			require.NoError(t, err)
			require.Equal(t, tc.plaintext, plaintext)
		})
	}
}

func TestSIVEngine_TamperDetection(t *testing.T) {
	siv, err := NewSIVEngine(randomKey(t))
	require.NoError(t, err)

	nonce := make([]byte, siv.NonceSize())
	_, err = rand.Read(nonce)
	require.NoError(t, err)

	ciphertext, err := siv.Encrypt(nonce, []byte("important message"))
	require.NoError(t, err)

	tampered := make([]byte, len(ciphertext))
	copy(tampered, ciphertext)
	tampered[len(tampered)-1] ^= 0x01

	_, err = siv.Decrypt(nonce, tampered)
	require.ErrorIs(t, err, ErrAuthFailed)
}

func TestSIVEngine_WrongNonceFails(t *testing.T) {
	siv, err := NewSIVEngine(randomKey(t))
	require.NoError(t, err)

	nonce := make([]byte, siv.NonceSize())
	_, err = rand.Read(nonce)
	require.NoError(t, err)

	ciphertext, err := siv.Encrypt(nonce, []byte("payload"))
	require.NoError(t, err)

	otherNonce := make([]byte, siv.NonceSize())
	_, err = rand.Read(otherNonce)
	require.NoError(t, err)

	_, err = siv.Decrypt(otherNonce, ciphertext)
	require.ErrorIs(t, err, ErrAuthFailed)
}

func TestSIVEngine_InvalidKey(t *testing.T) {
	for _, size := range []int{0, 32, 96} {
		key := make([]byte, size)
		_, err := NewSIVEngine(key)
		require.Error(t, err)
	}
}

func TestSIVEngine_ShortCiphertext(t *testing.T) {
	siv, err := NewSIVEngine(randomKey(t))
	require.NoError(t, err)

	nonce := make([]byte, siv.NonceSize())
	_, err = rand.Read(nonce)
	require.NoError(t, err)

	_, err = siv.Decrypt(nonce, []byte("short"))
	require.Error(t, err)
}
