package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FileName is the name of the configuration file
const FileName = "eams.json"

// ErrNotFound is returned when no configuration file exists
var ErrNotFound = errors.New("no " + FileName + " found")

// Config represents the eams.json configuration file
type Config struct {
	Language  string      `json:"language"`
	Extension string      `json:"extension"`
	Template  string      `json:"template"`
	Debug     DebugConfig `json:"debug"`
}

// DebugConfig controls dumping of plugin requests for later replay
type DebugConfig struct {
	Dump bool   `json:"dump"`
	Path string `json:"path"`
}

// Default returns the configuration used when no eams.json exists
func Default() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

// LoadConfig loads eams.json from the current directory or a parent directory
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return loadConfigFromDir(dir)
}

// LoadConfigOrDefault behaves like LoadConfig but falls back to Default when
// no configuration file exists.
func LoadConfigOrDefault() (*Config, string, error) {
	cfg, dir, err := LoadConfig()
	if errors.Is(err, ErrNotFound) {
		return Default(), "", nil
	}
	return cfg, dir, err
}

// LoadConfigFromPath loads the configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Relative template paths are relative to the config file
	if config.Template != "" && !filepath.IsAbs(config.Template) {
		config.Template = filepath.Join(filepath.Dir(path), config.Template)
	}

	config.setDefaults()
	return &config, nil
}

// Save writes the configuration as indented JSON
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ApplyParameters overrides configuration values from a protoc plugin
// parameter string such as "lang=cpp,ext=.hpp,debug".
func (c *Config) ApplyParameters(param string) error {
	for _, kv := range strings.Split(param, ",") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		key, value, hasValue := strings.Cut(kv, "=")

		switch key {
		case "lang", "language":
			c.Language = value
		case "ext", "extension":
			c.Extension = value
		case "template":
			c.Template = value
		case "debug":
			c.Debug.Dump = true
			if hasValue {
				dump, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("invalid value for debug: %q", value)
				}
				c.Debug.Dump = dump
			}
		case "debug_path":
			c.Debug.Path = value
		case "config":
			// handled by the caller before the other parameters
		default:
			return fmt.Errorf("unknown parameter: %s", key)
		}
	}

	c.setDefaults()
	return nil
}

// ConfigParameter returns the value of the "config" plugin parameter, if any
func ConfigParameter(param string) string {
	for _, kv := range strings.Split(param, ",") {
		if key, value, ok := strings.Cut(strings.TrimSpace(kv), "="); ok && key == "config" {
			return value
		}
	}
	return ""
}

func (c *Config) setDefaults() {
	if c.Language == "" {
		c.Language = "cpp"
	}
	if c.Debug.Path == "" {
		c.Debug.Path = "debug_embedded_proto.bin"
	}
}

// loadConfigFromDir searches for eams.json in the given directory and its parents
func loadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			config, err := LoadConfigFromPath(configPath)
			if err != nil {
				return nil, "", err
			}
			return config, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("%w in %s or any parent directory", ErrNotFound, startDir)
}
