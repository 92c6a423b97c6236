package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/desertthunder/chordfinder/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp(runner).Run(ctx, os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrNotImplemented):
			logger.Warn("not implemented")
			os.Exit(0)
		case errors.Is(err, shared.ErrSongNotFound):
			logger.Error("song not found", "error", err)
			os.Exit(2)
		case errors.Is(err, shared.ErrInvalidRating), errors.Is(err, shared.ErrMissingArgument),
			errors.Is(err, shared.ErrInvalidArgument), errors.Is(err, shared.ErrInvalidFlag),
			errors.Is(err, shared.ErrAlreadyRated):
			logger.Error("invalid input", "error", err)
			os.Exit(2)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "chordfinder",
		Usage:   "Find songs you can play with the chords you already know",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.Before,
		Commands: r.register(),
	}
}
