// Package config loads and validates the linker definition file.
//
// The file mirrors the definition shape of the rewriting rules: a `using`
// map of global substitution variables, an ordered `rules` list, a
// `headings` block, and the repository to read tags from. Validation is
// eager; every matcher and template compiles at load time so rule errors
// surface before any document is touched.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	linkerrs "git.home.luguber.info/inful/rstlinker/internal/errors"
	"git.home.luguber.info/inful/rstlinker/internal/heading"
	"git.home.luguber.info/inful/rstlinker/internal/rules"
)

// Config represents the application configuration
type Config struct {
	Using      map[string]string `yaml:"using,omitempty"`
	Rules      []rules.Spec      `yaml:"rules"`
	Headings   HeadingsConfig    `yaml:"headings"`
	Repository string            `yaml:"repository,omitempty"`
}

// HeadingsConfig controls version-heading date annotation.
type HeadingsConfig struct {
	Pattern    string `yaml:"pattern,omitempty"`
	DateFormat string `yaml:"date_format,omitempty"`
	TagPrefix  string `yaml:"tag_prefix,omitempty"`
}

const (
	// DefaultHeadingPattern matches bare two- or three-component version
	// lines, the common changelog heading shape.
	DefaultHeadingPattern = `^(?P<version>\d+(?:\.\d+){1,2})$`
	// DefaultDateFormat is strftime notation, rendered via go-strftime.
	DefaultDateFormat = `%Y-%m-%d`
)

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env if present so ${VAR} references in the YAML can point at
	// credentials or host names kept out of the file.
	loadEnvFile()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, linkerrs.ConfigError(err, fmt.Sprintf("configuration file not found: %s", configPath))
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, linkerrs.ConfigError(err, "failed to read config file")
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, linkerrs.ConfigError(err, "failed to unmarshal config")
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Headings.Pattern == "" {
		c.Headings.Pattern = DefaultHeadingPattern
	}
	if c.Headings.DateFormat == "" {
		c.Headings.DateFormat = DefaultDateFormat
	}
	if c.Repository == "" {
		c.Repository = "."
	}
}

// Validate compiles every rule and the heading configuration, surfacing the
// first invalid definition. Call sites get the same errors the transformer
// constructor would raise, just earlier.
func (c *Config) Validate() error {
	if _, err := rules.CompileAll(c.Rules, c.Using); err != nil {
		return err
	}
	if _, err := heading.New(c.Headings.Pattern, c.Headings.DateFormat, c.Headings.TagPrefix); err != nil {
		return err
	}
	return nil
}
