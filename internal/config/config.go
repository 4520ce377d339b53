/*
PURPOSE:
  Defines the configuration structure and loading logic for Tree Trial.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Allow configuration of the results file, dataset catalogue and analysis bins.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Needs to support Environment variables overrides (TREE_TRIAL_...).
  - Built-in datasets are always available; files listed under `datasets`
    are added to (or replace) them by ID.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine
  - Dependencies: gopkg.in/yaml.v3 (standard for Go config)

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - A missing default config file is not an error (falls back to defaults).

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Defaults should be sensible (10 bins, depth 1000).

USAGE:
  cfg, err := config.Load("tree_trial.yaml")

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct and update DefaultConfig/Validate.

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/daryltucker/tree-trial/internal/analysis"
	"github.com/daryltucker/tree-trial/internal/tree"
	"gopkg.in/yaml.v3"
)

const envPrefix = "TREE_TRIAL_"

// DatasetSource points a dataset ID at a YAML or JSON file.
type DatasetSource struct {
	ID   string `yaml:"id"`
	Path string `yaml:"path"`
}

// Config represents the full configuration for Tree Trial.
type Config struct {
	ResultsPath   string          `yaml:"results_path"`
	RecordShape   string          `yaml:"record_shape"` // canonical | legacy
	HistogramBins int             `yaml:"histogram_bins"`
	MaxDepth      int             `yaml:"max_depth"`
	Seed          uint64          `yaml:"seed"` // 0 draws targets from the global source
	Datasets      []DatasetSource `yaml:"datasets"`
	LogLevel      string          `yaml:"log_level"`
	LogFormat     string          `yaml:"log_format"` // auto | text | json
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ResultsPath:   "results.json",
		RecordShape:   "canonical",
		HistogramBins: analysis.DefaultBins,
		MaxDepth:      tree.DefaultMaxDepth,
		LogLevel:      "info",
		LogFormat:     "auto",
	}
}

// DefaultFiles are searched in order when no path is given.
var DefaultFiles = []string{"tree_trial.yaml", "tree-trial.yaml", "runner.yaml"}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, returns default config.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		for _, name := range DefaultFiles {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				break
			}
		}
	}

	if data != nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(envPrefix + "RESULTS"); ok {
		c.ResultsPath = v
	}
	if v, ok := lookup(envPrefix + "RECORD_SHAPE"); ok {
		c.RecordShape = v
	}
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(envPrefix + "LOG_FORMAT"); ok {
		c.LogFormat = v
	}
	if v, ok := lookup(envPrefix + "BINS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sBINS %q: %w", envPrefix, v, err)
		}
		c.HistogramBins = n
	}
	if v, ok := lookup(envPrefix + "MAX_DEPTH"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sMAX_DEPTH %q: %w", envPrefix, v, err)
		}
		c.MaxDepth = n
	}
	if v, ok := lookup(envPrefix + "SEED"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %sSEED %q: %w", envPrefix, v, err)
		}
		c.Seed = n
	}
	return nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ResultsPath) == "" {
		return fmt.Errorf("results_path must not be empty")
	}
	switch c.RecordShape {
	case "canonical", "legacy":
	default:
		return fmt.Errorf("record_shape must be canonical or legacy, got %q", c.RecordShape)
	}
	if c.HistogramBins < 1 {
		return fmt.Errorf("histogram_bins must be at least 1, got %d", c.HistogramBins)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be at least 1, got %d", c.MaxDepth)
	}
	seen := make(map[string]bool)
	for _, d := range c.Datasets {
		if d.ID == "" || d.Path == "" {
			return fmt.Errorf("dataset entries need both id and path")
		}
		if seen[d.ID] {
			return fmt.Errorf("duplicate dataset id %q", d.ID)
		}
		seen[d.ID] = true
	}
	return nil
}
