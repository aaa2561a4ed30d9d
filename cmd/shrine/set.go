package main

import (
	"github.com/spf13/cobra"

	"github.com/shrine-cli/shrine/shrine"
)

func newSetCmd() *cobra.Command {
	var binary bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a secret",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			return openForMutation(shrinePath(), func(open shrine.OpenShrine) error {
				return open.Set(key, []byte(value), modeFromFlag(binary))
			})
		},
	}

	cmd.Flags().BoolVar(&binary, "binary", false, "store the value as raw binary rather than text")
	return cmd
}
