package shrine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarioS1 is spec.md §8 S1: init+set+get.
func TestScenarioS1(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shrine")

	open := NewLocal()
	open.SetPassword([]byte("pw"))
	require.NoError(t, open.Set("k", []byte("v"), Text))

	closed, err := open.Close()
	require.NoError(t, err)
	require.NoError(t, closed.Persist(path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)

	reopened, err := loaded.Closed.OpenAes([]byte("pw"))
	require.NoError(t, err)

	secret, err := reopened.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(secret.Bytes()))
	assert.Equal(t, Text, secret.Mode())
}

// TestScenarioS2 is spec.md §8 S2: private keys.
func TestScenarioS2(t *testing.T) {
	open := NewLocal()
	open.SetPassword([]byte("pw"))
	require.NoError(t, open.Set("k", []byte("v"), Text))
	require.NoError(t, open.Set(".a", []byte("1"), Text))

	assert.Equal(t, []string{"k"}, open.Keys())
	assert.Equal(t, []string{"a"}, open.KeysPrivate())

	secret, err := open.Get(".a")
	require.NoError(t, err)
	assert.Equal(t, "1", string(secret.Bytes()))
}

// TestScenarioS3 is spec.md §8 S3: wrong passphrase.
func TestScenarioS3(t *testing.T) {
	open := NewLocal()
	open.SetPassword([]byte("pw"))
	require.NoError(t, open.Set("k", []byte("v"), Text))
	closed, err := open.Close()
	require.NoError(t, err)

	_, err = closed.OpenAes([]byte("bad"))
	assert.ErrorIs(t, err, ErrCrypto)
}

// TestScenarioS4 is spec.md §8 S4: tamper detection.
func TestScenarioS4(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shrine")

	open := NewLocal()
	open.SetPassword([]byte("pw"))
	require.NoError(t, open.Set("k", []byte("v"), Text))
	closed, err := open.Close()
	require.NoError(t, err)
	require.NoError(t, closed.Persist(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)

	_, err = loaded.Closed.OpenAes([]byte("pw"))
	assert.ErrorIs(t, err, ErrCrypto)
}

// TestScenarioS5 is spec.md §8 S5: unsupported version.
func TestScenarioS5(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shrine")

	open := NewLocal()
	open.IntoClear()
	closed, err := open.Close()
	require.NoError(t, err)
	require.NoError(t, closed.Persist(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[6] = 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err = LoadFromPath(path)
	var versionErr *UnsupportedVersionError
	require.ErrorAs(t, err, &versionErr)
	assert.Equal(t, uint8(255), versionErr.Version)
}

func TestLocal_RoundTripClear(t *testing.T) {
	open := NewLocal()
	open.IntoClear()
	require.NoError(t, open.Set("k1", []byte("v1"), Text))
	require.NoError(t, open.Set("k2", []byte{0x01, 0x02}, Binary))

	closed, err := open.Close()
	require.NoError(t, err)

	reopened, err := closed.OpenClear()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"k1", "k2"}, reopened.Keys())
	s1, err := reopened.Get("k1")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(s1.Bytes()))
}

func TestLocal_CloseAesWithoutPasswordFails(t *testing.T) {
	open := NewLocal()
	_, err := open.Close()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestLocal_OpenClearOnAesFails(t *testing.T) {
	open := NewLocal()
	open.SetPassword([]byte("pw"))
	closed, err := open.Close()
	require.NoError(t, err)

	_, err = closed.OpenClear()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestLocal_OpenAesOnClearFails(t *testing.T) {
	open := NewLocal()
	open.IntoClear()
	closed, err := open.Close()
	require.NoError(t, err)

	_, err = closed.OpenAes([]byte("pw"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestLocal_Mv(t *testing.T) {
	src := NewLocal()
	src.IntoClear()
	require.NoError(t, src.Set("k", []byte("v"), Text))

	dst := NewLocal()
	dst.IntoClear()
	dstUUID := dst.UUID()

	src.Mv(dst)

	assert.Equal(t, dstUUID, dst.UUID())
	secret, err := dst.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(secret.Bytes()))
}

func TestLocal_NamespaceRouting(t *testing.T) {
	open := NewLocal()
	open.IntoClear()
	require.NoError(t, open.Set("k", []byte("v"), Text))

	_, err := open.Get(".k")
	assert.True(t, IsKeyNotFound(err))
}
