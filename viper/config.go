// Package viper resolves refiner configuration from defaults, a config
// file, REFINER_* environment variables and command-line flags.
package viper

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/refiner"
	"github.com/fwojciec/refiner/api"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. REFINER_BASE_URL.
const EnvPrefix = "refiner"

// Config keys.
const (
	KeyBaseURL          = "base_url"
	KeyTimeout          = "timeout"
	KeyDownloadDir      = "download_dir"
	KeyExamplesFile     = "examples_file"
	KeyLogFile          = "log_file"
	KeyVerbosity        = "verbosity"
	KeyProgressInterval = "progress.interval"
	KeyDisplayDelay     = "progress.display_delay"
	KeyNoticeDuration   = "notice.duration"
)

// Config is the resolved application configuration.
type Config struct {
	BaseURL          string
	Timeout          time.Duration
	DownloadDir      string
	ExamplesFile     string // empty selects the built-in catalog
	LogFile          string
	Verbosity        int
	ProgressInterval time.Duration
	DisplayDelay     time.Duration
	NoticeDuration   time.Duration
}

// Option is a configuration key with its default and meaning.
type Option struct {
	Key     string
	Default any
	Comment string
}

// Options returns the configuration keys, their defaults and meanings.
// This is the single source of truth for defaults.
func Options() []Option {
	return []Option{
		{Key: KeyBaseURL, Default: api.DefaultBaseURL, Comment: "Base URL of the refinement service"},
		{Key: KeyTimeout, Default: api.DefaultTimeout, Comment: "Time budget for one refinement request"},
		{Key: KeyDownloadDir, Default: ".", Comment: "Directory downloaded roadmaps are written to"},
		{Key: KeyExamplesFile, Default: "", Comment: "YAML example catalog; empty uses the built-in one"},
		{Key: KeyLogFile, Default: defaultLogFile(), Comment: "Log file; the TUI owns the terminal"},
		{Key: KeyVerbosity, Default: 0, Comment: "klog verbosity (2 logs the request lifecycle)"},
		{Key: KeyProgressInterval, Default: refiner.DefaultProgressInterval, Comment: "Time between simulated progress steps"},
		{Key: KeyDisplayDelay, Default: refiner.DefaultDisplayDelay, Comment: "How long the completed progress bar stays visible"},
		{Key: KeyNoticeDuration, Default: refiner.DefaultNoticeDuration, Comment: "How long download notices stay visible"},
	}
}

// Load resolves configuration with precedence: defaults < file < env <
// flags bound to v by the caller. A missing config file is not an error;
// an explicitly set one that cannot be read is.
func Load(v *viper.Viper) (Config, error) {
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "refiner"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "refiner"))
		}
	}

	for _, o := range Options() {
		v.SetDefault(o.Key, o.Default)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Config{
		BaseURL:          strings.TrimSpace(v.GetString(KeyBaseURL)),
		Timeout:          v.GetDuration(KeyTimeout),
		DownloadDir:      expandHome(v.GetString(KeyDownloadDir)),
		ExamplesFile:     expandHome(v.GetString(KeyExamplesFile)),
		LogFile:          expandHome(v.GetString(KeyLogFile)),
		Verbosity:        v.GetInt(KeyVerbosity),
		ProgressInterval: v.GetDuration(KeyProgressInterval),
		DisplayDelay:     v.GetDuration(KeyDisplayDelay),
		NoticeDuration:   v.GetDuration(KeyNoticeDuration),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("%s must be an http(s) URL, got %q", KeyBaseURL, c.BaseURL))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be greater than 0", KeyTimeout))
	}
	if c.DownloadDir == "" {
		errs = append(errs, fmt.Errorf("%s is required", KeyDownloadDir))
	}
	if c.Verbosity < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyVerbosity))
	}
	if c.ProgressInterval <= 0 {
		errs = append(errs, fmt.Errorf("%s must be greater than 0", KeyProgressInterval))
	}
	if c.DisplayDelay < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyDisplayDelay))
	}
	if c.NoticeDuration <= 0 {
		errs = append(errs, fmt.Errorf("%s must be greater than 0", KeyNoticeDuration))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// defaultLogFile resolves $XDG_STATE_HOME/refiner/refiner.log or
// ~/.local/state/refiner/refiner.log.
func defaultLogFile() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "refiner", "refiner.log")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "refiner", "refiner.log")
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[1:])
		}
	}
	return p
}
