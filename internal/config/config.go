package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Refinement modes for locating reads
const (
	RefineApproximate = "approximate"
	RefineExact       = "exact"
)

// IndexConfig holds index and graph parameters
type IndexConfig struct {
	K int `yaml:"k"`
	// L is the node window length. Zero means the length of the first read.
	L      int    `yaml:"l"`
	D      int    `yaml:"d"`
	Refine string `yaml:"refine"`
}

// AlignerConfig holds parallel driver configuration
type AlignerConfig struct {
	Partitions int  `yaml:"partitions"` // 0 picks min(CPUs, reads) at run time
	Progress   bool `yaml:"progress"`
}

// InputConfig names the sequence files
type InputConfig struct {
	References string `yaml:"references"`
	Reads      string `yaml:"reads"`
}

// OutputConfig holds count output configuration. An empty path means stdout.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config represents the complete configuration for an alignment run
type Config struct {
	Index   IndexConfig   `yaml:"index"`
	Aligner AlignerConfig `yaml:"aligner"`
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// LoadConfig loads configuration from a file
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for unspecified configuration
func setDefaults(cfg *Config) {
	if cfg.Index.K == 0 {
		cfg.Index.K = 10
	}
	if cfg.Index.Refine == "" {
		cfg.Index.Refine = RefineExact
	}

	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// Validate checks field ranges. Constraints that depend on the input
// sequences are checked later by the validation package.
func (c *Config) Validate() error {
	if c.Index.K <= 0 {
		return fmt.Errorf("index.k must be positive")
	}
	if c.Index.L != 0 && c.Index.L < c.Index.K {
		return fmt.Errorf("index.l must be at least index.k")
	}
	if c.Index.D < 0 {
		return fmt.Errorf("index.d must not be negative")
	}
	if c.Index.Refine != RefineApproximate && c.Index.Refine != RefineExact {
		return fmt.Errorf("index.refine must be %q or %q", RefineApproximate, RefineExact)
	}
	if c.Aligner.Partitions < 0 {
		return fmt.Errorf("aligner.partitions must not be negative")
	}
	if c.Metrics.Enabled && (c.Metrics.Port < 1 || c.Metrics.Port > 65535) {
		return fmt.Errorf("metrics.port must be between 1 and 65535")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console")
	}
	return nil
}
