package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/refiner"
	"github.com/fwojciec/refiner/api"
	bt "github.com/fwojciec/refiner/bubbletea"
	"github.com/fwojciec/refiner/fs"
	"github.com/fwojciec/refiner/markdown"
	rv "github.com/fwojciec/refiner/viper"
	"github.com/fwojciec/refiner/yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

type ctxKey string

const appKey ctxKey = "app"

// app holds the dependencies shared by all subcommands.
type app struct {
	cfg      rv.Config
	client   *api.Client
	saver    *fs.Saver
	examples refiner.Examples
	closeLog func()
}

// controller wires a Controller to the app's client, saver and settings.
func (a *app) controller(observer func(refiner.View)) *refiner.Controller {
	sched := refiner.TimeScheduler{}
	return refiner.NewController(a.client, a.saver,
		refiner.WithScheduler(sched),
		refiner.WithSimulator(refiner.NewSimulator(sched, refiner.WithInterval(a.cfg.ProgressInterval))),
		refiner.WithRenderer(markdown.Render),
		refiner.WithDocument(markdown.Document),
		refiner.WithExamples(a.examples),
		refiner.WithDisplayDelay(a.cfg.DisplayDelay),
		refiner.WithNoticeDuration(a.cfg.NoticeDuration),
		refiner.WithObserver(observer),
	)
}

func (a *app) close() {
	if a != nil && a.closeLog != nil {
		a.closeLog()
	}
}

// newRootCmd constructs the root command. Without a subcommand it runs the
// TUI.
func newRootCmd() *cobra.Command {
	var cfgPath string
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "refiner",
		Short:         "Turn a project description into an actionable roadmap",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			cfg, err := rv.Load(v)
			if err != nil {
				return err
			}
			a, err := buildApp(cfg)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, a))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			getApp(cmd).close()
		},
		RunE: runTUI,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgPath, "config", "", "path to config file (yaml|toml|json)")
	flags.String("base-url", "", "base URL of the refinement service")
	flags.Duration("timeout", 0, "time budget for one refinement request")
	flags.String("download-dir", "", "directory downloaded roadmaps are written to")
	flags.String("examples-file", "", "YAML example catalog")
	flags.String("log-file", "", "log file")
	flags.IntP("verbosity", "v", 0, "log verbosity")
	for key, flag := range map[string]string{
		rv.KeyBaseURL:      "base-url",
		rv.KeyTimeout:      "timeout",
		rv.KeyDownloadDir:  "download-dir",
		rv.KeyExamplesFile: "examples-file",
		rv.KeyLogFile:      "log-file",
		rv.KeyVerbosity:    "verbosity",
	} {
		// Lookup cannot fail for flags registered above.
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newExamplesCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func buildApp(cfg rv.Config) (*app, error) {
	closeLog, err := setupLogging(cfg.LogFile, cfg.Verbosity)
	if err != nil {
		return nil, err
	}
	examples, err := yaml.LoadOrDefault(cfg.ExamplesFile)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("load examples: %w", err)
	}
	klog.V(1).Infof("refiner: using %s, downloads in %s", cfg.BaseURL, cfg.DownloadDir)
	return &app{
		cfg:      cfg,
		client:   api.New(api.WithBaseURL(cfg.BaseURL), api.WithTimeout(cfg.Timeout)),
		saver:    fs.NewSaver(cfg.DownloadDir),
		examples: examples,
		closeLog: closeLog,
	}, nil
}

func getApp(cmd *cobra.Command) *app {
	a, _ := cmd.Context().Value(appKey).(*app)
	return a
}

func runTUI(cmd *cobra.Command, _ []string) error {
	a := getApp(cmd)
	views := make(chan refiner.View, 64)
	ctrl := a.controller(refiner.Forward(views))
	m := bt.New(ctrl, views, refiner.DefaultTheme())
	err := bt.Run(cmd.Context(), m)
	ctrl.Cancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

// userError presents err with the message the UI would show, while keeping
// it matchable with errors.Is.
type userError struct {
	err error
}

func (e userError) Error() string { return refiner.ErrorMessage(e.err) }

func (e userError) Unwrap() error { return e.err }
