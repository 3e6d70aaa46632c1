package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/v0rails/v0rails/internal/emitter"
)

func emittersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "emitters",
		Short: "List the artifact generators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := emitter.NewRegistry()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tLANGUAGE\tFILE")
			for _, name := range registry.List() {
				e, err := registry.Get(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t*%s\n", e.Name(), e.Language(), e.FileExtension())
			}
			return tw.Flush()
		},
	}
}
