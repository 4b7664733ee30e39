package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/okra-platform/protoc-gen-eams/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	ctrl := &commands.Controller{
		Flags: &commands.Flags{},
	}

	// stdout carries the plugin response, diagnostics go to stderr
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:    "protoc-gen-eams",
		Usage:   `protoc plugin generating EmbeddedProto C++ headers with statically sized fields.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("EAMS_LOG_LEVEL"),
				Value:       "warn",
				Destination: &ctrl.Flags.LogLevel,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)
			ctrl.Logger = log.Logger

			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return ctrl.Plugin(ctx)
		},
		Commands: []*cli.Command{
			{
				Name:      "replay",
				Usage:     "Run the generator on a dumped plugin request",
				ArgsUsage: "[request file]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "out",
						Usage:       "directory to write the generated units to, stdout if empty",
						Destination: &ctrl.Flags.Output,
					},
					&cli.BoolFlag{
						Name:        "watch",
						Usage:       "replay again whenever the request file changes",
						Destination: &ctrl.Flags.Watch,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Replay(ctx, c.Args().First())
				},
			},
			{
				Name:  "init",
				Usage: "Create an eams.json in the current directory",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Init(ctx)
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run protoc-gen-eams")
	}
}
