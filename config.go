// apps/go-client/config.go
//
// Command line and environment configuration.
// Responsibilities:
//   - Declaring flags with their WORDLE_* environment fallbacks.
//   - Validating values before anything touches the terminal or the network.

package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/robalobadob/wordle/apps/go-client/internal/game"
)

type Config struct {
	server     string
	mode       string
	rows       int
	cols       int
	state      string
	timeout    time.Duration
	retryDelay time.Duration
	retries    int
	plain      bool
	logLevel   string
	logFile    string
}

func (c *Config) validate() error {
	u, err := url.Parse(c.server)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid --server (want http(s)://host[:port]): %q", c.server)
	}
	if c.mode == "" {
		return errors.New("--mode must not be empty")
	}
	if c.rows < 1 {
		return fmt.Errorf("invalid --rows (must be at least 1): %d", c.rows)
	}
	if c.cols < 1 {
		return fmt.Errorf("invalid --cols (must be at least 1): %d", c.cols)
	}
	if c.state == "" {
		return errors.New("--state must not be empty")
	}
	if c.timeout <= 0 {
		return fmt.Errorf("invalid --timeout (must be positive): %s", c.timeout)
	}
	if c.retryDelay < 0 {
		return fmt.Errorf("invalid --retry-delay (must not be negative): %s", c.retryDelay)
	}
	if c.retries < 0 {
		return fmt.Errorf("invalid --retries (must not be negative): %d", c.retries)
	}
	if _, err := zerolog.ParseLevel(c.logLevel); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	return nil
}

// options is the game-facing slice of the configuration.
func (c *Config) options() game.Options {
	return game.Options{
		Rows:       c.rows,
		Cols:       c.cols,
		Mode:       c.mode,
		RetryDelay: c.retryDelay,
		Retries:    c.retries,
	}
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("WORDLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "wordle",
		Short:         "Play Wordle in the terminal against a remote judge.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	d := game.DefaultOptions()
	fs.StringVarP(&cfg.server, "server", "s", "http://localhost:8010", "judge base URL (env: WORDLE_SERVER)")
	fs.StringVarP(&cfg.mode, "mode", "m", d.Mode, "game mode passed to the judge (env: WORDLE_MODE)")
	fs.IntVar(&cfg.rows, "rows", d.Rows, "number of attempts (env: WORDLE_ROWS)")
	fs.IntVar(&cfg.cols, "cols", d.Cols, "word length (env: WORDLE_COLS)")
	fs.StringVar(&cfg.state, "state", "./data/client.db", "path to the identity database (env: WORDLE_STATE)")
	fs.DurationVar(&cfg.timeout, "timeout", 10*time.Second, "per-request timeout (env: WORDLE_TIMEOUT)")
	fs.DurationVar(&cfg.retryDelay, "retry-delay", d.RetryDelay, "wait before retrying a failed request (env: WORDLE_RETRY_DELAY)")
	fs.IntVar(&cfg.retries, "retries", d.Retries, "consecutive retries of a failed request (env: WORDLE_RETRIES)")
	fs.BoolVarP(&cfg.plain, "plain", "p", false, "line-oriented input and output instead of full screen (env: WORDLE_PLAIN)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "trace, debug, info, warn or error (env: WORDLE_LOG_LEVEL)")
	fs.StringVar(&cfg.logFile, "log-file", "wordle.log", "file to write logs to (env: WORDLE_LOG_FILE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("wordle v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
