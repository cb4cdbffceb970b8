package main

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

func newExamplesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "examples",
		Short: "List the example project descriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			examples := getApp(cmd).examples
			w := 0
			for _, ex := range examples {
				w = max(w, runewidth.StringWidth(ex.Key))
			}
			out := cmd.OutOrStdout()
			for i, ex := range examples {
				fmt.Fprintf(out, "F%d  %s  %s\n", i+1, runewidth.FillRight(ex.Key, w), ex.Title)
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show <key>",
		Short: "Print an example description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, ok := getApp(cmd).examples.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown example %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), ex.Text)
			return nil
		},
	})
	return cmd
}
