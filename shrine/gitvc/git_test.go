package gitvc

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRepo_NonRepoDirectory(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsRepo(dir))
}

func TestIsRepo_AndCommitAuto(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	run(t, dir, "init")
	run(t, dir, "config", "user.email", "test@example.com")
	run(t, dir, "config", "user.name", "test")

	require.True(t, IsRepo(dir))

	shrinePath := filepath.Join(dir, "shrine")
	require.NoError(t, os.WriteFile(shrinePath, []byte("data"), 0o600))

	require.NoError(t, CommitAuto(dir, shrinePath))
}

func run(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}
