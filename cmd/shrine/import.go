package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shrine-cli/shrine/shrine"
	"github.com/shrine-cli/shrine/shrine/serialize"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load KEY=VALUE pairs from an environment-style file into the shrine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			pairs, err := serialize.DecodeText(string(data))
			if err != nil {
				return err
			}

			return openForMutation(shrinePath(), func(open shrine.OpenShrine) error {
				for k, v := range pairs {
					if err := open.Set(k, []byte(v), shrine.Text); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
