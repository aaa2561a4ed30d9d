package shrine

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FallsBackToLocalWhenNoClient(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shrine")

	open := NewLocal()
	open.IntoClear()
	closed, err := open.Close()
	require.NoError(t, err)
	require.NoError(t, closed.Persist(path))

	wrapped, err := New(nil, path)
	require.NoError(t, err)
	assert.True(t, wrapped.IsLocal())
	assert.Equal(t, closed.UUID(), wrapped.UUID())
}

func TestClosedShrine_OpenClear(t *testing.T) {
	open := NewLocal()
	open.IntoClear()
	require.NoError(t, open.Set("k", []byte("v"), Text))
	closed, err := open.Close()
	require.NoError(t, err)

	wrapped := NewClosedLocal(closed)
	reopened, err := wrapped.Open(func(uuid.UUID) []byte { return nil })
	require.NoError(t, err)

	secret, err := reopened.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(secret.Bytes()))
}

func TestOpenShrine_MvUnsupportedAcrossRemote(t *testing.T) {
	local := NewLocal()
	local.IntoClear()
	localOpen := NewOpenLocal(local)

	remoteOpen := OpenShrine{remote: NewRemoteShrine("path", nil)}

	err := localOpen.Mv(remoteOpen)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestClosedShrine_PersistUnsupportedForRemote(t *testing.T) {
	wrapped := NewClosedRemote(NewRemoteShrine("path", nil))
	err := wrapped.Persist("path")
	assert.ErrorIs(t, err, ErrUnsupported)
}
