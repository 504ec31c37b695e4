// Package config reads the YAML file that describes a knowledge base: which
// programs to load, which SQLite tables to import and how to run queries.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/horn/pkg/horn/internalerr"
)

// Config is the top-level configuration file.
type Config struct {
	Debug    bool     `yaml:"debug"`
	MaxDepth int      `yaml:"max_depth"`
	Limit    int      `yaml:"limit"`
	Programs []string `yaml:"programs"`
	Imports  []Import `yaml:"imports"`
}

// Import tells every row of Query, run against Database, as a Verb fact.
type Import struct {
	Database string `yaml:"database"`
	Verb     string `yaml:"verb"`
	Query    string `yaml:"query"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks limits and imports.
func (c *Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max_depth must not be negative", internalerr.ErrInvalidConfig)
	}
	if c.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", internalerr.ErrInvalidConfig)
	}
	for i, imp := range c.Imports {
		switch {
		case imp.Database == "":
			return fmt.Errorf("%w: import %d has no database", internalerr.ErrInvalidConfig, i+1)
		case imp.Verb == "":
			return fmt.Errorf("%w: import %d has no verb", internalerr.ErrInvalidConfig, i+1)
		case imp.Query == "":
			return fmt.Errorf("%w: import %d has no query", internalerr.ErrInvalidConfig, i+1)
		}
	}
	return nil
}
