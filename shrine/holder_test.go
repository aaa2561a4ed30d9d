package shrine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolder_SetGetRemove(t *testing.T) {
	h := NewHolder()
	require.NoError(t, h.Set("k", NewSecret([]byte("v"), Text)))

	s, err := h.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(s.Bytes()))

	assert.True(t, h.Remove("k"))
	assert.False(t, h.Remove("k"))

	_, err = h.Get("k")
	assert.True(t, IsKeyNotFound(err))
}

func TestHolder_SetRejectsEmptyKey(t *testing.T) {
	h := NewHolder()
	err := h.Set("", NewSecret([]byte("v"), Text))
	assert.True(t, IsInvalidKey(err))
}

func TestHolder_SetRejectsLeadingDot(t *testing.T) {
	h := NewHolder()
	err := h.Set(".k", NewSecret([]byte("v"), Text))
	assert.True(t, IsInvalidKey(err))
}

func TestHolder_PrivateNamespaceIsSeparate(t *testing.T) {
	h := NewHolder()
	require.NoError(t, h.Set("k", NewSecret([]byte("pub"), Text)))
	require.NoError(t, h.SetPrivate("k", NewSecret([]byte("priv"), Text)))

	pub, err := h.Get("k")
	require.NoError(t, err)
	priv, err := h.GetPrivate("k")
	require.NoError(t, err)

	assert.Equal(t, "pub", string(pub.Bytes()))
	assert.Equal(t, "priv", string(priv.Bytes()))
}

func TestHolder_KeysAreSortedAndDeterministic(t *testing.T) {
	h := NewHolder()
	require.NoError(t, h.Set("zebra", NewSecret([]byte("1"), Text)))
	require.NoError(t, h.Set("apple", NewSecret([]byte("2"), Text)))
	require.NoError(t, h.Set("mango", NewSecret([]byte("3"), Text)))

	assert.Equal(t, []string{"apple", "mango", "zebra"}, h.Keys())
}

func TestHolder_Clone(t *testing.T) {
	h := NewHolder()
	require.NoError(t, h.Set("k", NewSecret([]byte("v"), Text)))

	clone := h.Clone()
	require.NoError(t, clone.Set("k2", NewSecret([]byte("v2"), Text)))

	assert.Equal(t, []string{"k"}, h.Keys())
	assert.Equal(t, []string{"k", "k2"}, clone.Keys())
}
