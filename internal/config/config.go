// Package config provides configuration loading and structs for the lindenview server and CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Schema  SchemaConfig  `yaml:"schema"`
	Explain ExplainConfig `yaml:"explain"`
	Output  OutputConfig  `yaml:"output"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SchemaConfig says where the table's schema columns come from.
// Fields is used as is; ConfigPath points at a saved service configuration
// document and takes precedence when set.
type SchemaConfig struct {
	ConfigPath string   `yaml:"config_path"`
	Fields     []string `yaml:"fields"`
	Watch      *bool    `yaml:"watch"`
}

// WatchOrDefault returns whether to reload ConfigPath on change; defaults to true when unset.
func (s *SchemaConfig) WatchOrDefault() bool {
	if s.Watch != nil {
		return *s.Watch
	}
	return true
}

// ExplainConfig holds explanation summary settings.
type ExplainConfig struct {
	DepthCap int `yaml:"depth_cap"`
}

// OutputConfig holds CLI rendering defaults.
type OutputConfig struct {
	Format string `yaml:"format"`
	Sheet  string `yaml:"sheet"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	if cfg.Schema.ConfigPath != "" {
		cfg.Schema.ConfigPath = expandPath(cfg.Schema.ConfigPath, filepath.Dir(path))
	}
	return &cfg, nil
}

// Validate rejects settings that defaults cannot repair.
func Validate(cfg *Config) error {
	if cfg.Explain.DepthCap < 0 {
		return fmt.Errorf("explain.depth_cap cannot be negative, got %d", cfg.Explain.DepthCap)
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}
	switch cfg.Output.Format {
	case "text", "compact", "json":
	default:
		return fmt.Errorf("output.format must be text, compact, or json, got %q", cfg.Output.Format)
	}
	return nil
}

// Save writes the config to path. Used for persisting schema field changes.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
