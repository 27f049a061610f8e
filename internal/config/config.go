// Package config holds the runtime configuration for the greenhouse CLI.
// Settings load from an optional YAML file and are overridden by command
// line flags; defaults reproduce the reference solver's behavior.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gitrdm/greenhouse/pkg/cover"
)

// Config is the full CLI configuration.
type Config struct {
	// Input is the path of the problems file.
	Input string `yaml:"input"`

	// Seed fixes the base random seed; zero seeds from the wall clock,
	// making runs non-reproducible.
	Seed int64 `yaml:"seed"`

	// Workers bounds how many instances solve concurrently; zero or less
	// uses all CPU cores.
	Workers int `yaml:"workers"`

	// Goal is the cardinality the agglomeration search drives down toward.
	// It is independent of each instance's greenhouse budget, which only
	// filters what the best-solution tracker accepts.
	Goal int `yaml:"goal"`

	// MaxSuccessors caps the candidate frontier per search round.
	MaxSuccessors int `yaml:"max_successors"`

	// Strict rejects instances with out-of-bounds grids or budgets instead
	// of warning and solving them anyway.
	Strict bool `yaml:"strict"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`
}

// Default returns the configuration matching the reference solver.
func Default() Config {
	return Config{
		Goal:          cover.DefaultGoal,
		MaxSuccessors: cover.DefaultMaxSuccessors,
	}
}

// Load reads a YAML configuration file over the defaults. Unknown keys are
// rejected so typos surface instead of silently reverting to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges the solver cannot clamp sensibly on its own.
func (c Config) Validate() error {
	if c.Goal < 1 {
		return fmt.Errorf("goal must be at least 1, got %d", c.Goal)
	}
	if c.MaxSuccessors < 1 {
		return fmt.Errorf("max_successors must be at least 1, got %d", c.MaxSuccessors)
	}
	return nil
}
