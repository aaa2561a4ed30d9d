package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print a shrine's identity and configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			closed, err := openClosed(shrinePath())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "uuid:       %s\n", closed.UUID())
			fmt.Fprintf(out, "version:    %d\n", closed.Version())
			fmt.Fprintf(out, "encryption: %s\n", closed.Encryption())
			fmt.Fprintf(out, "format:     %s\n", closed.Format())
			return nil
		},
	}
}
