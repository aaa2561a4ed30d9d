package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shrine-cli/shrine/shrine"
)

// configPrefix namespaces shrine-level settings as reserved private
// Holder keys, avoiding a side file (SPEC_FULL.md §2 "Configuration").
const configPrefix = "config."

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read or write shrine-scoped settings",
	}
	cmd.AddCommand(newConfigGetCmd(), newConfigSetCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Print a config setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			closed, err := openClosed(shrinePath())
			if err != nil {
				return err
			}
			open, err := closed.Open(promptProvider())
			if err != nil {
				return err
			}
			secret, err := open.Get("." + configPrefix + args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(secret.Bytes()))
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <value>",
		Short: "Write a config setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, value := args[0], args[1]
			return openForMutation(shrinePath(), func(open shrine.OpenShrine) error {
				return open.Set("."+configPrefix+name, []byte(value), shrine.Text)
			})
		},
	}
}
