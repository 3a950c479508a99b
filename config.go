package smithygen

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration for one generation run.
type Config struct {
	// Model is the path to the Smithy JSON AST file.
	Model string `yaml:"model" validate:"required"`

	// OutDir is the directory generated Rust sources are written to,
	// e.g. "./generated/src".
	OutDir string `yaml:"outDir" validate:"required"`

	// Mode selects the fallibility rules: "client" (default) or
	// "server".
	Mode string `yaml:"mode" validate:"omitempty,oneof=client server"`

	// ValidateInput applies in server mode: builders accept only
	// fully validated values.
	ValidateInput bool `yaml:"validateInput"`
}

var validate = validator.New()

// LoadConfig reads a YAML settings file and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the configuration and applies defaults.
func (c *Config) Validate() error {
	if c.Mode == "" {
		c.Mode = "client"
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
