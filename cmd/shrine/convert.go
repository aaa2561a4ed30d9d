package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shrine-cli/shrine/shrine"
)

func newConvertCmd() *cobra.Command {
	var toClear, toAes bool
	var newPassword string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Re-encode and/or re-encrypt a shrine, minting a new identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := shrinePath()

			closed, err := openClosed(path)
			if err != nil {
				return err
			}
			openShrine, err := closed.Open(promptProvider())
			if err != nil {
				return err
			}
			local, ok := openShrine.Local()
			if !ok {
				return shrine.ErrUnsupported
			}

			opts := shrine.ConvertOptions{}
			if toClear {
				e := shrine.Plain
				opts.NewEncryption = &e
			}
			if toAes {
				e := shrine.Aes
				opts.NewEncryption = &e
			}
			if newPassword != "" {
				opts.NewPassphrase = []byte(newPassword)
			}

			newClosed, err := shrine.Convert(local, opts)
			if err != nil {
				return err
			}
			if err := newClosed.Persist(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "converted shrine: new uuid %s\n", newClosed.UUID())
			return nil
		},
	}

	cmd.Flags().BoolVar(&toClear, "clear", false, "remove encryption")
	cmd.Flags().BoolVar(&toAes, "aes", false, "enable AES encryption")
	cmd.Flags().StringVar(&newPassword, "new-password", "", "set a new passphrase")
	return cmd
}
