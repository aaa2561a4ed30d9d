package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shrine-cli/shrine/shrine"
)

func newRmCmd() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "rm [key]",
		Short: "Remove a secret, or every public key matching --pattern",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				key := args[0]
				return openForMutation(shrinePath(), func(open shrine.OpenShrine) error {
					if !open.Rm(key) {
						return &shrine.KeyNotFoundError{Key: key}
					}
					return nil
				})
			}

			if pattern == "" {
				return fmt.Errorf("rm requires either a key or --pattern")
			}
			re, err := shrine.CompilePattern(pattern)
			if err != nil {
				return err
			}
			return openForMutation(shrinePath(), func(open shrine.OpenShrine) error {
				for _, k := range shrine.FilterKeys(open.Keys(), re) {
					open.Rm(k)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "remove every public key matching this regular expression")
	return cmd
}
