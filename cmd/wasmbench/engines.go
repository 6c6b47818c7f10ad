package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/caffeineduck/wasmbench/engine"
	"github.com/spf13/cobra"
)

func newEnginesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List the available engines",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND")
			for _, name := range engine.Names() {
				kind, _ := engine.Kind(name)
				fmt.Fprintf(w, "%s\t%s\n", name, kind)
			}
			w.Flush()
		},
	}
}
