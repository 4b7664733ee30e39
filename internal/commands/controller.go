// Package commands contains the CLI commands for the application
package commands

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

type Flags struct {
	LogLevel string

	// Replay flags
	Output string
	Watch  bool
}

type Controller struct {
	Flags  *Flags
	Logger zerolog.Logger

	Stdin  io.Reader
	Stdout io.Writer
}

func (c *Controller) stdin() io.Reader {
	if c.Stdin != nil {
		return c.Stdin
	}
	return os.Stdin
}

func (c *Controller) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}

// Plugin runs as a protoc plugin on stdin and stdout
func (c *Controller) Plugin(ctx context.Context) error {
	cmd := NewPluginCommand(c.stdin(), c.stdout(), c.Logger)
	return cmd.Execute(ctx)
}

// Replay compiles a dumped plugin request
func (c *Controller) Replay(ctx context.Context, path string) error {
	cmd := NewReplayCommand(c.stdout(), c.Logger)
	return cmd.Execute(ctx, ReplayOptions{
		Path:   path,
		Output: c.Flags.Output,
		Watch:  c.Flags.Watch,
	})
}

// Init creates an eams.json in the current directory
func (c *Controller) Init(ctx context.Context) error {
	cmd := NewInitCommand()
	return cmd.Run(ctx)
}
