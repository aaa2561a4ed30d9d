package shrine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_AlwaysMintsNewUUID(t *testing.T) {
	open := NewLocal()
	open.IntoClear()
	originalUUID := open.UUID()

	closed, err := Convert(open, ConvertOptions{})
	require.NoError(t, err)
	assert.NotEqual(t, originalUUID, closed.UUID())
}

func TestConvert_ChangesEncryptionAndSetsPassword(t *testing.T) {
	open := NewLocal()
	open.IntoClear()
	require.NoError(t, open.Set("k", []byte("v"), Text))

	aes := Aes
	closed, err := Convert(open, ConvertOptions{NewEncryption: &aes, NewPassphrase: []byte("pw")})
	require.NoError(t, err)
	assert.Equal(t, Aes, closed.Encryption())

	reopened, err := closed.OpenAes([]byte("pw"))
	require.NoError(t, err)
	secret, err := reopened.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(secret.Bytes()))
}

func TestConvert_ChangesToClear(t *testing.T) {
	open := NewLocal()
	open.SetPassword([]byte("pw"))

	clear := Plain
	closed, err := Convert(open, ConvertOptions{NewEncryption: &clear})
	require.NoError(t, err)
	assert.Equal(t, Plain, closed.Encryption())

	_, err = closed.OpenClear()
	require.NoError(t, err)
}
