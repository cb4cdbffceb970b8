package main

import (
	"fmt"

	"github.com/fwojciec/refiner/fs"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var pattern string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List downloaded roadmaps, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := getApp(cmd).cfg.DownloadDir
			files, err := fs.List(dir, pattern)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintf(out, "No saved roadmaps in %s\n", dir)
				return nil
			}
			w := 0
			for _, f := range files {
				w = max(w, runewidth.StringWidth(f.Path))
			}
			for _, f := range files {
				fmt.Fprintf(out, "%s  %8d bytes\n", runewidth.FillRight(f.Path, w), f.Size)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", fs.SavedPattern, "doublestar glob, relative to the download directory")
	return cmd
}
