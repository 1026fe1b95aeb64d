// Package config provides configuration structs and utilities for the spork application.
package config

import (
	"fmt"
	"strings"
)

// Config represents the root configuration for the spork application.
// Everything here is an ambient tunable with a working default; spork itself
// never writes configuration or any other state.
type Config struct {
	Assistant AssistantConfig `yaml:"assistant"`
	Worktrees WorktreesConfig `yaml:"worktrees"`
	Naming    NamingConfig    `yaml:"naming"`
	SpecKit   SpecKitConfig   `yaml:"spec_kit"`
	Logging   LoggingConfig   `yaml:"logging"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

// AssistantConfig holds configuration for the external assistant hand-off.
type AssistantConfig struct {
	Command     string `yaml:"command"`     // assistant binary name
	Instruction string `yaml:"instruction"` // initial instruction template, one %s for the request text
}

// WorktreesConfig holds configuration for worktree placement.
type WorktreesConfig struct {
	Dir string `yaml:"dir"` // subdirectory of the repo root holding feature worktrees
}

// NamingConfig holds configuration for branch name derivation.
type NamingConfig struct {
	MaxFragmentLength int `yaml:"max_fragment_length"`
}

// SpecKitConfig holds the paths that define an initialized Spec Kit.
type SpecKitConfig struct {
	Dir          string `yaml:"dir"`
	ManifestFile string `yaml:"manifest_file"`
	TemplatesDir string `yaml:"templates_dir"`
	ScriptsDir   string `yaml:"scripts_dir"`
}

// LoggingConfig holds configuration for application logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// TracingConfig holds configuration for pipeline tracing.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	ExporterType string  `yaml:"exporter_type"` // none, stdout, otlp
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	SampleRate   float64 `yaml:"sample_rate"`
	ServiceName  string  `yaml:"service_name"`
}

// NewDefaultConfig returns the built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Assistant: AssistantConfig{
			Command:     "claude",
			Instruction: "/specify %s",
		},
		Worktrees: WorktreesConfig{
			Dir: ".worktrees",
		},
		Naming: NamingConfig{
			MaxFragmentLength: 50,
		},
		SpecKit: SpecKitConfig{
			Dir:          ".specify",
			ManifestFile: ".specify/memory/constitution.md",
			TemplatesDir: ".specify/templates",
			ScriptsDir:   ".specify/scripts",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			ExporterType: "none",
			SampleRate:   1.0,
			ServiceName:  "spork",
		},
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Assistant.Command == "" {
		return fmt.Errorf("assistant.command is required")
	}
	if !strings.Contains(c.Assistant.Instruction, "%s") {
		return fmt.Errorf("assistant.instruction must contain %%s for the request text")
	}
	if c.Worktrees.Dir == "" || strings.ContainsAny(c.Worktrees.Dir, "/\\") {
		return fmt.Errorf("worktrees.dir must be a bare directory name, got %q", c.Worktrees.Dir)
	}
	if c.Naming.MaxFragmentLength < 1 || c.Naming.MaxFragmentLength > 100 {
		return fmt.Errorf("naming.max_fragment_length must be in [1,100], got %d", c.Naming.MaxFragmentLength)
	}
	if c.SpecKit.Dir == "" {
		return fmt.Errorf("spec_kit.dir is required")
	}
	switch c.Tracing.ExporterType {
	case "", "none", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter_type must be none, stdout, or otlp, got %q", c.Tracing.ExporterType)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be in [0,1], got %f", c.Tracing.SampleRate)
	}
	return nil
}

// Instruction renders the initial assistant instruction for a request.
func (c *Config) Instruction(requestText string) string {
	return fmt.Sprintf(c.Assistant.Instruction, requestText)
}
