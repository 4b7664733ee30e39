package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/okra-platform/protoc-gen-eams/internal/codegen"
	"github.com/okra-platform/protoc-gen-eams/internal/config"
)

type InitOptions struct {
	Language  string
	Extension string
	Template  string
	Debug     bool
}

type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type osFileSystem struct{}

func (fs *osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

type InitCommand struct {
	filesystem FileSystem
	languages  []string
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

func NewInitCommand() *InitCommand {
	return &InitCommand{
		filesystem: &osFileSystem{},
		languages:  codegen.DefaultRegistry.Languages(),
	}
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	if _, err := ic.filesystem.Stat(config.FileName); err == nil {
		return fmt.Errorf("%s already exists in the current directory", config.FileName)
	}

	var options *InitOptions
	var err error

	// For testing: use provided options instead of prompting
	if ic.testOptions != nil {
		options = ic.testOptions
	} else {
		options, err = ic.promptInitOptions(opts...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}

	cfg := &config.Config{
		Language:  options.Language,
		Extension: options.Extension,
		Template:  options.Template,
		Debug:     config.DebugConfig{Dump: options.Debug},
	}
	if err := cfg.ApplyParameters(""); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := ic.filesystem.WriteFile(config.FileName, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.FileName, err)
	}

	fmt.Printf("Created %s for language %s\n", config.FileName, cfg.Language)
	return nil
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	options := &InitOptions{}

	form := ic.createInitForm(options)

	if len(opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	return options, nil
}

func (ic *InitCommand) createInitForm(options *InitOptions) *huh.Form {
	languages := make([]huh.Option[string], 0, len(ic.languages))
	for _, lang := range ic.languages {
		languages = append(languages, huh.NewOption(lang, lang))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Language").
				Description("Generator used for the output units").
				Options(languages...).
				Value(&options.Language),

			huh.NewInput().
				Title("Extension").
				Description("Output file extension, empty for the generator default").
				Value(&options.Extension),

			huh.NewInput().
				Title("Template").
				Description("Path to a custom header template, empty for the built-in one").
				Value(&options.Template).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if _, err := ic.filesystem.Stat(s); err != nil {
						return fmt.Errorf("template %s not found", s)
					}
					return nil
				}),

			huh.NewConfirm().
				Title("Dump requests").
				Description("Write every plugin request to the debug path for replay").
				Value(&options.Debug),
		),
	)
}
