// Command shrine is the command-line surface over the shrine core: a
// thin collaborator that only translates flags and prompts into calls on
// the shrine and agent packages (spec.md §6 "CLI surface (collaborator)").
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shrine-cli/shrine/agent"
	"github.com/shrine-cli/shrine/shrine"
)

const defaultShrineFilename = "shrine"

var (
	flagPassword string
	flagFolder   string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shrine",
		Short:         "A local secret store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flagPassword, "password", "p", "", "shrine passphrase")
	root.PersistentFlags().StringVarP(&flagFolder, "folder", "f", "", "directory holding the shrine file")

	root.AddCommand(
		newInitCmd(),
		newConvertCmd(),
		newInfoCmd(),
		newSetCmd(),
		newGetCmd(),
		newLsCmd(),
		newRmCmd(),
		newImportCmd(),
		newDumpCmd(),
		newConfigCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "shrine:", err)
		os.Exit(1)
	}
}

// shrinePath resolves the path of the shrine file, named "shrine" inside
// --folder, else inside $SHRINE_PATH, else in the current directory
// (spec.md §6 "Environment").
func shrinePath() string {
	if flagFolder != "" {
		return filepath.Join(flagFolder, defaultShrineFilename)
	}
	if env := os.Getenv("SHRINE_PATH"); env != "" {
		return filepath.Join(env, defaultShrineFilename)
	}
	return defaultShrineFilename
}

// passphrase returns the configured passphrase, prompting on the
// terminal if --password was not given.
func passphrase() ([]byte, error) {
	if flagPassword != "" {
		return []byte(flagPassword), nil
	}
	fmt.Fprint(os.Stderr, "Passphrase: ")
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	return pw, nil
}

// agentClient returns a Client for the local agent if one is reachable,
// or nil if no agent should be consulted (spec.md §4.J "falls back to
// direct file access").
func agentClient() shrine.Client {
	socketPath, pidPath, err := agent.RuntimePaths()
	if err != nil {
		return nil
	}
	client := agent.NewClient(socketPath, pidPath)
	if !client.IsRunning() {
		return nil
	}
	return client
}

// openClosed loads the shrine at path, preferring the agent if one is
// running (spec.md §3 "New").
func openClosed(path string) (shrine.ClosedShrine, error) {
	return shrine.New(agentClient(), path)
}
