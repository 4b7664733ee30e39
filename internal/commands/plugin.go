package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/okra-platform/protoc-gen-eams/internal/codegen"
)

// FileWriter persists debug dumps
type FileWriter interface {
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type osFileWriter struct{}

func (w *osFileWriter) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// PluginDependencies for the plugin command
type PluginDependencies struct {
	ConfigLoader ConfigLoader
	Registry     *codegen.Registry
	FileWriter   FileWriter
}

// PluginCommand reads a CodeGeneratorRequest and writes a CodeGeneratorResponse
type PluginCommand struct {
	in     io.Reader
	out    io.Writer
	logger zerolog.Logger
	deps   PluginDependencies
}

// NewPluginCommand creates a plugin command with default dependencies
func NewPluginCommand(in io.Reader, out io.Writer, logger zerolog.Logger) *PluginCommand {
	return &PluginCommand{
		in:     in,
		out:    out,
		logger: logger,
		deps: PluginDependencies{
			ConfigLoader: &defaultConfigLoader{},
			Registry:     codegen.DefaultRegistry,
			FileWriter:   &osFileWriter{},
		},
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (pc *PluginCommand) WithDependencies(deps PluginDependencies) *PluginCommand {
	pc.deps = deps
	return pc
}

// Execute runs the plugin
func (pc *PluginCommand) Execute(ctx context.Context) error {
	input, err := io.ReadAll(pc.in)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	req := &pluginpb.CodeGeneratorRequest{}
	if err := proto.Unmarshal(input, req); err != nil {
		return fmt.Errorf("failed to unmarshal request: %w", err)
	}

	resp := pc.respond(req, input)

	output, err := proto.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if _, err := pc.out.Write(output); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

func (pc *PluginCommand) respond(req *pluginpb.CodeGeneratorRequest, raw []byte) *pluginpb.CodeGeneratorResponse {
	cfg, err := resolveConfig(pc.deps.ConfigLoader, req.GetParameter())
	if err != nil {
		return &pluginpb.CodeGeneratorResponse{Error: proto.String(err.Error())}
	}

	if cfg.Debug.Dump {
		if err := pc.deps.FileWriter.WriteFile(cfg.Debug.Path, raw, 0644); err != nil {
			pc.logger.Warn().Err(err).Str("path", cfg.Debug.Path).Msg("failed to dump request")
		} else {
			pc.logger.Info().Str("path", cfg.Debug.Path).Msg("dumped request")
		}
	}

	return generate(req, cfg, pc.deps.Registry, pc.logger)
}
