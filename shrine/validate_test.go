package shrine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePattern_InvalidRegex(t *testing.T) {
	_, err := CompilePattern("(unterminated")
	var patternErr *InvalidPatternError
	require.ErrorAs(t, err, &patternErr)
}

func TestFilterKeys(t *testing.T) {
	keys := []string{"alpha", "beta", "alphabet"}
	re, err := CompilePattern("^alpha")
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "alphabet"}, FilterKeys(keys, re))
}

func TestFilterKeys_NilPatternMatchesAll(t *testing.T) {
	keys := []string{"alpha", "beta"}
	assert.Equal(t, keys, FilterKeys(keys, nil))
}
