package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.Assistant.Command != "claude" {
		t.Errorf("unexpected default assistant: %q", cfg.Assistant.Command)
	}
	if cfg.Worktrees.Dir != ".worktrees" {
		t.Errorf("unexpected default worktrees dir: %q", cfg.Worktrees.Dir)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing assistant command", func(c *Config) { c.Assistant.Command = "" }},
		{"instruction without placeholder", func(c *Config) { c.Assistant.Instruction = "/specify" }},
		{"worktrees dir with separator", func(c *Config) { c.Worktrees.Dir = "a/b" }},
		{"fragment length zero", func(c *Config) { c.Naming.MaxFragmentLength = 0 }},
		{"fragment length too large", func(c *Config) { c.Naming.MaxFragmentLength = 500 }},
		{"unknown exporter", func(c *Config) { c.Tracing.ExporterType = "jaeger" }},
		{"sample rate out of range", func(c *Config) { c.Tracing.SampleRate = 2.0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestInstruction(t *testing.T) {
	cfg := NewDefaultConfig()
	got := cfg.Instruction("add user authentication")
	if got != "/specify add user authentication" {
		t.Errorf("Instruction() = %q", got)
	}
}

func TestLoaderMissingFileGivesDefaults(t *testing.T) {
	loader, err := NewLoader(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := loader.Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Assistant.Command != "claude" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoaderParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := strings.TrimSpace(`
assistant:
  command: my-assistant
naming:
  max_fragment_length: 30
logging:
  level: debug
`)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	loader, err := NewLoader(dir)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Assistant.Command != "my-assistant" {
		t.Errorf("Command = %q", cfg.Assistant.Command)
	}
	if cfg.Naming.MaxFragmentLength != 30 {
		t.Errorf("MaxFragmentLength = %d", cfg.Naming.MaxFragmentLength)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Worktrees.Dir != ".worktrees" {
		t.Errorf("Worktrees.Dir = %q", cfg.Worktrees.Dir)
	}
}

func TestLoaderMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("assistant: [not: a: mapping"), 0644); err != nil {
		t.Fatal(err)
	}

	loader, err := NewLoader(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := loader.Load(path); err == nil {
		t.Error("expected parse error")
	}
}
