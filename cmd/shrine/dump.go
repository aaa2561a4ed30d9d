package main

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/shrine-cli/shrine/shrine"
	"github.com/shrine-cli/shrine/shrine/serialize"
)

func newDumpCmd() *cobra.Command {
	var private bool
	var pattern string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the shrine's secrets as KEY=VALUE lines",
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

			keys := open.Keys()
			if private {
				keys = open.KeysPrivate()
			}
			keys = shrine.FilterKeys(keys, re)

			lookup := func(key string) (serialize.SecretView, bool) {
				lookupKey := key
				if private {
					lookupKey = "." + key
				}
				secret, err := open.Get(lookupKey)
				if err != nil {
					return serialize.SecretView{}, false
				}
				return serialize.SecretView{Bytes: secret.Bytes(), Mode: int(secret.Mode()), CreatedAt: secret.CreatedAt()}, true
			}

			fmt.Fprint(cmd.OutOrStdout(), serialize.EncodeText(keys, lookup))
			return nil
		},
	}

	cmd.Flags().BoolVar(&private, "private", false, "dump private keys instead of public keys")
	cmd.Flags().StringVar(&pattern, "pattern", "", "dump only keys matching this regular expression")
	return cmd
}
