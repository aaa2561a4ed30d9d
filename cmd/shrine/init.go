package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shrine-cli/shrine/shrine"
)

func newInitCmd() *cobra.Command {
	var force, clear bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new shrine file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := shrinePath()

			if !force {
				if _, err := os.Stat(path); err == nil {
					return &shrine.FileAlreadyExistsError{Path: path}
				}
			}

			open := shrine.NewLocal()
			if clear {
				open.IntoClear()
			} else {
				pw, err := passphrase()
				if err != nil {
					return err
				}
				open.SetPassword(pw)
			}

			closed, err := open.Close()
			if err != nil {
				return err
			}
			if err := closed.Persist(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "initialized shrine %s at %s\n", closed.UUID(), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing shrine file")
	cmd.Flags().BoolVar(&clear, "clear", false, "create an unencrypted shrine")
	return cmd
}
