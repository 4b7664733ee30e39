package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/okra-platform/protoc-gen-eams/internal/codegen"
	"github.com/okra-platform/protoc-gen-eams/internal/watch"
)

// ReplayOptions for the replay command
type ReplayOptions struct {
	// Path of the dumped request. Defaults to the configured debug path.
	Path string
	// Output directory. Units are printed to stdout when empty.
	Output string
	// Watch re-runs the replay whenever Path changes
	Watch bool
}

// ReplayCommand runs the generator on a dumped CodeGeneratorRequest without protoc
type ReplayCommand struct {
	out      io.Writer
	logger   zerolog.Logger
	loader   ConfigLoader
	registry *codegen.Registry
}

// NewReplayCommand creates a replay command with default dependencies
func NewReplayCommand(out io.Writer, logger zerolog.Logger) *ReplayCommand {
	return &ReplayCommand{
		out:      out,
		logger:   logger,
		loader:   &defaultConfigLoader{},
		registry: codegen.DefaultRegistry,
	}
}

// Execute replays the request once, then keeps replaying on change when
// opts.Watch is set.
func (rc *ReplayCommand) Execute(ctx context.Context, opts ReplayOptions) error {
	if opts.Path == "" {
		cfg, err := resolveConfig(rc.loader, "")
		if err != nil {
			return err
		}
		opts.Path = cfg.Debug.Path
	}

	if err := rc.replay(opts); err != nil {
		if !opts.Watch {
			return err
		}
		rc.logger.Error().Err(err).Msg("replay failed")
	}

	if !opts.Watch {
		return nil
	}

	watcher, err := watch.NewFileWatcher(rc.logger, func(path string) {
		rc.logger.Info().Str("path", path).Msg("request changed, replaying")
		if err := rc.replay(opts); err != nil {
			rc.logger.Error().Err(err).Msg("replay failed")
		}
	})
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.AddFile(opts.Path); err != nil {
		return err
	}

	rc.logger.Info().Str("path", opts.Path).Msg("watching for changes")
	if err := watcher.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func (rc *ReplayCommand) replay(opts ReplayOptions) error {
	req, err := readRequest(opts.Path)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(rc.loader, req.GetParameter())
	if err != nil {
		return err
	}

	resp := generate(req, cfg, rc.registry, rc.logger)
	if resp.Error != nil {
		return fmt.Errorf("generation failed: %s", resp.GetError())
	}

	for _, file := range resp.GetFile() {
		if opts.Output == "" {
			fmt.Fprintf(rc.out, "// %s\n%s\n", file.GetName(), file.GetContent())
			continue
		}

		target := filepath.Join(opts.Output, filepath.FromSlash(file.GetName()))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", target, err)
		}
		if err := os.WriteFile(target, []byte(file.GetContent()), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		fmt.Fprintf(rc.out, "wrote %s\n", target)
	}
	return nil
}

// readRequest loads a dumped request. Files ending in .txtpb or .textproto
// are read as text format, everything else as binary wire format.
func readRequest(path string) (*pluginpb.CodeGeneratorRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request: %w", err)
	}

	req := &pluginpb.CodeGeneratorRequest{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txtpb", ".textproto":
		err = prototext.Unmarshal(data, req)
	default:
		err = proto.Unmarshal(data, req)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode request %s: %w", path, err)
	}
	return req, nil
}
