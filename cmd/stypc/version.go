package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	modulePath = "github.com/npillmayer/stypro"
	version    = "0.1.0-experimental"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the stypc version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "stypc v%s\nmodule: %s\n", version, modulePath)
			return nil
		},
	}
}
