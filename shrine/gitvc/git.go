// Package gitvc is the git collaborator referenced by spec.md §9: after a
// successful mutation, if the shrine directory is a git working tree and
// auto-commit is enabled, it stages and commits the shrine file. A git
// failure surfaces to the caller but never rolls back the file write —
// the file is the source of truth, git is auxiliary.
package gitvc

import (
	"fmt"
	"os/exec"
	"path/filepath"
)

// IsRepo reports whether dir is inside a git working tree.
func IsRepo(dir string) bool {
	cmd := exec.Command("git", "-C", dir, "rev-parse", "--is-inside-work-tree")
	out, err := cmd.Output()
	if err != nil {
		return false
	}
	return string(out) == "true\n"
}

// CommitAuto stages filename within dir and commits it with a fixed
// message. Callers are expected to have already persisted the shrine
// file before calling this.
func CommitAuto(dir, filename string) error {
	add := exec.Command("git", "-C", dir, "add", filepath.Base(filename))
	if out, err := add.CombinedOutput(); err != nil {
		return fmt.Errorf("gitvc: add failed: %w: %s", err, out)
	}

	commit := exec.Command("git", "-C", dir, "commit", "-m", "Update shrine", "--allow-empty")
	if out, err := commit.CombinedOutput(); err != nil {
		return fmt.Errorf("gitvc: commit failed: %w: %s", err, out)
	}

	return nil
}
