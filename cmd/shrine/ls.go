package main

import (
	"regexp"

	"github.com/spf13/cobra"

	"github.com/shrine-cli/shrine/shrine"
)

func newLsCmd() *cobra.Command {
	var private, all bool
	var pattern string

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			var re *regexp.Regexp
			if pattern != "" {
				var err error
				re, err = shrine.CompilePattern(pattern)
				if err != nil {
					return err
				}
			}

			closed, err := openClosed(shrinePath())
			if err != nil {
				return err
			}
			open, err := closed.Open(promptProvider())
			if err != nil {
				return err
			}

			if all || !private {
				printKeys(cmd, shrine.FilterKeys(open.Keys(), re))
			}
			if all || private {
				printKeys(cmd, shrine.FilterKeys(open.KeysPrivate(), re))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&private, "private", false, "list only private keys")
	cmd.Flags().BoolVar(&all, "all", false, "list both public and private keys")
	cmd.Flags().StringVar(&pattern, "pattern", "", "filter keys by regular expression")
	return cmd
}
