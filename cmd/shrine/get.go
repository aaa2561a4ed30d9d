package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shrine-cli/shrine/shrine"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Read a secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			closed, err := openClosed(shrinePath())
			if err != nil {
				return err
			}
			open, err := closed.Open(promptProvider())
			if err != nil {
				return err
			}

			secret, err := open.Get(key)
			if err != nil {
				return err
			}

			if secret.Mode() == shrine.Binary {
				_, err := os.Stdout.Write(secret.Bytes())
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(secret.Bytes()))
			return nil
		},
	}
}
