package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/okra-platform/protoc-gen-eams/internal/codegen"
	"github.com/okra-platform/protoc-gen-eams/internal/compiler"
	"github.com/okra-platform/protoc-gen-eams/internal/config"
)

// ConfigLoader finds the configuration for a run
type ConfigLoader interface {
	LoadConfig() (*config.Config, string, error)
	LoadConfigFromPath(path string) (*config.Config, error)
}

type defaultConfigLoader struct{}

func (l *defaultConfigLoader) LoadConfig() (*config.Config, string, error) {
	return config.LoadConfigOrDefault()
}

func (l *defaultConfigLoader) LoadConfigFromPath(path string) (*config.Config, error) {
	return config.LoadConfigFromPath(path)
}

// resolveConfig loads the configuration named by the "config" parameter, or
// the nearest eams.json, and applies the remaining plugin parameters.
func resolveConfig(loader ConfigLoader, param string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := config.ConfigParameter(param); path != "" {
		cfg, err = loader.LoadConfigFromPath(path)
	} else {
		cfg, _, err = loader.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ApplyParameters(param); err != nil {
		return nil, fmt.Errorf("invalid plugin parameter: %w", err)
	}
	return cfg, nil
}

// generate compiles the files of req and packs the result into a plugin
// response. Fatal errors are reported through the response's Error field.
func generate(req *pluginpb.CodeGeneratorRequest, cfg *config.Config, registry *codegen.Registry, logger zerolog.Logger) *pluginpb.CodeGeneratorResponse {
	resp := &pluginpb.CodeGeneratorResponse{}

	gen, err := registry.Get(cfg.Language, codegen.Options{
		Extension:    cfg.Extension,
		TemplatePath: cfg.Template,
	})
	if err != nil {
		resp.Error = proto.String(err.Error())
		return resp
	}

	result, err := compiler.Compile(req.GetProtoFile(), gen, compiler.WithLogger(logger))
	if err != nil {
		resp.Error = proto.String(err.Error())
		return resp
	}

	for _, unit := range result.Units {
		resp.File = append(resp.File, &pluginpb.CodeGeneratorResponse_File{
			Name:    proto.String(unit.Name),
			Content: proto.String(unit.Content),
		})
	}

	logger.Info().
		Int("files", len(req.GetProtoFile())).
		Int("units", len(result.Units)).
		Int("failures", len(result.Failures)).
		Int("unresolved", len(result.Unresolved)).
		Msg("generated")

	return resp
}
