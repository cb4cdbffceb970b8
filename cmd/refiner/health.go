package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the refinement service is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := getApp(cmd)
			h, err := a.client.Health(cmd.Context())
			if err != nil {
				return userError{err}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "url:        %s\n", a.cfg.BaseURL)
			fmt.Fprintf(out, "status:     %s\n", h.Status)
			fmt.Fprintf(out, "api_status: %s\n", h.APIStatus)
			if h.Timestamp != "" {
				fmt.Fprintf(out, "timestamp:  %s\n", h.Timestamp)
			}
			return nil
		},
	}
}
