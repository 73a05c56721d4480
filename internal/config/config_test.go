package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
schema:
  fields: ["title", "rank"]
explain:
  depth_cap: 5
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if len(cfg.Schema.Fields) != 2 || cfg.Schema.Fields[0] != "title" {
		t.Errorf("schema fields: got %v", cfg.Schema.Fields)
	}
	if cfg.Explain.DepthCap != 5 {
		t.Errorf("depth_cap: got %d, want 5", cfg.Explain.DepthCap)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
	if cfg.Schema.Watch != nil {
		t.Error("watch should stay unset when there is no config_path")
	}
}

func TestLoad_debugTrue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8090
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
schema:
  config_path: "./linden/config.json"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "linden", "config.json")
	if cfg.Schema.ConfigPath != want {
		t.Errorf("config_path = %s, want %s", cfg.Schema.ConfigPath, want)
	}
	if !cfg.Schema.WatchOrDefault() {
		t.Error("watch should default to true when config_path is set")
	}
}

func TestLoad_invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative depth", "explain:\n  depth_cap: -2\n"},
		{"bad port", "server:\n  port: 70000\n"},
		{"unknown format", "output:\n  format: html\n"},
		{"not yaml", "server: [unterminated\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("Load() should fail for %q", tt.content)
			}
		})
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8090 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Explain.DepthCap != 3 {
		t.Errorf("default depth_cap: got %d", cfg.Explain.DepthCap)
	}
	if cfg.Output.Format != "text" || cfg.Output.Sheet != "results" {
		t.Errorf("default output: got %+v", cfg.Output)
	}
}

func TestSchemaConfig_WatchOrDefault(t *testing.T) {
	t.Run("nil_returns_true", func(t *testing.T) {
		s := &SchemaConfig{}
		if got := s.WatchOrDefault(); !got {
			t.Errorf("WatchOrDefault() = %v, want true", got)
		}
	})
	t.Run("false_returns_false", func(t *testing.T) {
		f := false
		s := &SchemaConfig{Watch: &f}
		if got := s.WatchOrDefault(); got {
			t.Errorf("WatchOrDefault() = %v, want false", got)
		}
	})
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")
	cfg := &Config{
		Server: ServerConfig{Host: "localhost", Port: 9090},
		Schema: SchemaConfig{Fields: []string{"title"}},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("loaded port: got %d", loaded.Server.Port)
	}
	if len(loaded.Schema.Fields) != 1 || loaded.Schema.Fields[0] != "title" {
		t.Errorf("loaded fields: got %v", loaded.Schema.Fields)
	}
}
