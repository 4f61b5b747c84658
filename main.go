// apps/go-client/main.go
//
// Entry point for the Wordle terminal client.
// Responsibilities:
//   - Loading .env and parsing flags.
//   - Setting up logging (to a file, since the screen belongs to the game).
//   - Wiring identity storage, the judge client, a rendering sink and the
//     event loop, and running them until the player quits.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-client/internal/client"
	"github.com/robalobadob/wordle/apps/go-client/internal/game"
	"github.com/robalobadob/wordle/apps/go-client/internal/identity"
	"github.com/robalobadob/wordle/apps/go-client/internal/judge"
	"github.com/robalobadob/wordle/apps/go-client/internal/render"
	"github.com/robalobadob/wordle/apps/go-client/internal/store"
)

const releaseVersion = "0.1.0"

func main() {
	_ = godotenv.Load()
	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}

// initLogger points the global logger at cfg.logFile. In plain mode logs are
// mirrored to stderr; stdout carries the board.
func initLogger(cfg *Config) (io.Closer, error) {
	lvl, err := zerolog.ParseLevel(cfg.logLevel)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(lvl)

	f, err := os.OpenFile(cfg.logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	var w io.Writer = f
	if cfg.plain {
		w = zerolog.MultiLevelWriter(f, zerolog.ConsoleWriter{Out: os.Stderr})
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return f, nil
}

func run(ctx context.Context, cfg *Config) error {
	logs, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer logs.Close()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := store.OpenSQLite(cfg.state)
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer st.Close()

	j, err := judge.New(cfg.server, cfg.timeout, cfg.cols)
	if err != nil {
		return err
	}
	ids := identity.New(st, nil)

	var (
		c      *client.Client
		listen func(context.Context) error
	)
	if cfg.plain {
		sink := render.NewText(os.Stdout)
		c = client.New(j, ids, sink, cfg.options())
		listen = func(ctx context.Context) error {
			return sink.Listen(ctx, os.Stdin, func(ctx context.Context, evs ...game.Event) error {
				_, err := c.Do(ctx, evs...)
				return err
			})
		}
	} else {
		tb, err := render.NewTermbox()
		if err != nil {
			return fmt.Errorf("init terminal: %w", err)
		}
		defer tb.Close()
		c = client.New(j, ids, tb, cfg.options())
		listen = func(ctx context.Context) error {
			return tb.Listen(ctx, func(ev game.Event) { _ = c.Send(ctx, ev) })
		}
	}

	log.Info().Str("server", cfg.server).Str("mode", cfg.mode).Bool("plain", cfg.plain).Msg("starting wordle")

	runErr := make(chan error, 1)
	go func() { runErr <- c.Run(ctx) }()
	listenErr := make(chan error, 1)
	go func() { listenErr <- listen(ctx) }()

	select {
	case err = <-listenErr:
		cancel()
		<-runErr
	case err = <-runErr:
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		log.Error().Err(err).Msg("client exited")
	}
	return err
}
