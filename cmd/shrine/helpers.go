package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shrine-cli/shrine/shrine"
)

// promptProvider adapts the CLI's passphrase prompt to the
// ClosedShrine.Open callback signature. A failed prompt yields a nil
// passphrase, which surfaces as the expected CryptoFailure rather than a
// distinct CLI-only error path.
func promptProvider() func(uuid.UUID) []byte {
	return func(uuid.UUID) []byte {
		pw, err := passphrase()
		if err != nil {
			return nil
		}
		return pw
	}
}

// openForMutation loads and opens the shrine at path and calls fn on it.
// If fn fails, its error is returned and nothing is written; otherwise a
// local shrine is re-closed and persisted to path, and the result of that
// is returned. Remote (agent-backed) shrines persist inside
// the agent itself, so Close/Persist there are no-ops (spec.md §4.K).
func openForMutation(path string, fn func(shrine.OpenShrine) error) error {
	closed, err := openClosed(path)
	if err != nil {
		return err
	}

	open, err := closed.Open(promptProvider())
	if err != nil {
		return err
	}

	if err := fn(open); err != nil {
		return err
	}

	if open.IsLocal() {
		reClosed, err := open.Close()
		if err != nil {
			return err
		}
		return reClosed.Persist(path)
	}
	return nil
}

func modeFromFlag(binary bool) shrine.Mode {
	if binary {
		return shrine.Binary
	}
	return shrine.Text
}

func printKeys(cmd *cobra.Command, keys []string) {
	for _, k := range keys {
		fmt.Fprintln(cmd.OutOrStdout(), k)
	}
}
