package agent

import (
	"fmt"
	"os"
	"path/filepath"
)

// RuntimePaths resolves the socket and pid file paths shared by the
// agent daemon and its clients: $XDG_RUNTIME_DIR/shrine if set, else
// $HOME/.shrine/run.
func RuntimePaths() (socketPath, pidPath string, err error) {
	dir, err := runtimeDir()
	if err != nil {
		return "", "", err
	}
	return filepath.Join(dir, "agent.sock"), filepath.Join(dir, "agent.pid"), nil
}

func runtimeDir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "shrine"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".shrine", "run"), nil
}
