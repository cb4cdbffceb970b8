package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fwojciec/refiner"
	"github.com/fwojciec/refiner/goldmark"
	"github.com/fwojciec/refiner/markdown"
	"github.com/spf13/cobra"
)

// Output formats for generate.
const (
	formatMarkdown = "markdown"
	formatHTML     = "html"
	formatTerminal = "terminal"
)

func newGenerateCmd() *cobra.Command {
	var (
		format string
		save   bool
		width  int
	)
	cmd := &cobra.Command{
		Use:   "generate [description|-]",
		Short: "Generate a roadmap without the TUI",
		Long: `Generate sends a project description to the service and prints the
roadmap on stdout. Progress goes to stderr. With "-" or no argument the
description is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case formatMarkdown, formatHTML, formatTerminal:
			default:
				return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, formatMarkdown, formatHTML, formatTerminal)
			}
			desc, err := readDescription(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return generate(cmd, desc, format, width, save)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatMarkdown, "output format: markdown, html or terminal")
	cmd.Flags().BoolVarP(&save, "save", "s", false, "also download the roadmap to the download directory")
	cmd.Flags().IntVarP(&width, "width", "w", 80, "wrap width for the terminal format")
	return cmd
}

func readDescription(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read description: %w", err)
	}
	return string(data), nil
}

func generate(cmd *cobra.Command, desc, format string, width int, save bool) error {
	a := getApp(cmd)
	stderr := cmd.ErrOrStderr()

	views := make(chan refiner.View, 64)
	forward := refiner.Forward(views)
	var mu sync.Mutex
	last := -1
	ctrl := a.controller(func(v refiner.View) {
		mu.Lock()
		if p := v.Progress; p != nil && p.Percentage > last {
			last = p.Percentage
			fmt.Fprintf(stderr, "[%3d%%] %s: %s\n", p.Percentage, p.Title, p.Status)
		}
		mu.Unlock()
		forward(v)
	})

	if err := ctrl.Generate(cmd.Context(), desc); err != nil {
		return userError{err}
	}
	v, err := refiner.WaitDone(cmd.Context(), views)
	if err != nil {
		ctrl.Cancel()
		return err
	}
	if v.State != refiner.StateSuccess {
		return errors.New(v.Error)
	}

	roadmap := v.Result.Roadmap
	out := cmd.OutOrStdout()
	switch format {
	case formatHTML:
		fmt.Fprint(out, markdown.Document(refiner.DocumentTitle, v.HTML))
	case formatTerminal:
		fmt.Fprintln(out, goldmark.Render(roadmap, width, refiner.DefaultTheme()))
	default:
		fmt.Fprint(out, roadmap)
		if !strings.HasSuffix(roadmap, "\n") {
			fmt.Fprintln(out)
		}
	}

	md := v.Metadata().Display()
	fmt.Fprintf(stderr, "Processing: %s · Tokens: %s · Time: %s\n", md.ProcessingType, md.TotalTokens, md.ProcessingTime)

	if save {
		path, err := ctrl.Download()
		if err != nil {
			return userError{err}
		}
		fmt.Fprintf(stderr, "Roadmap saved to %s\n", path)
	}
	return nil
}
