// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package config provides configuration loading and validation for plugopts.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. PLUGOPTS_SOURCES_EQUICORD.
const EnvPrefix = "PLUGOPTS"

// Config represents the plugopts configuration.
type Config struct {
	// Sources locates the two source trees
	Sources SourcesConfig `mapstructure:"sources" yaml:"sources" json:"sources"`

	// Directories are the plugin roots relative to each source tree
	Directories DirectoriesConfig `mapstructure:"directories" yaml:"directories" json:"directories"`

	// Output is the output file path for the categorized document
	Output string `mapstructure:"output" yaml:"output" json:"output"`

	// Format is the output format (json, yaml). Empty infers it from Output.
	Format string `mapstructure:"format" yaml:"format" json:"format"`

	// Concurrency bounds the number of plugins extracted at once
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency" json:"concurrency"`

	// Deprecated configures the deprecated plugin registry
	Deprecated DeprecatedConfig `mapstructure:"deprecated" yaml:"deprecated" json:"deprecated"`

	// Watch contains file watching configuration
	Watch WatchConfig `mapstructure:"watch" yaml:"watch" json:"watch"`
}

// SourcesConfig contains the source tree roots.
type SourcesConfig struct {
	// Vencord is the root of the first source tree
	Vencord string `mapstructure:"vencord" yaml:"vencord" json:"vencord"`

	// Equicord is the root of the second source tree; empty means absent
	Equicord string `mapstructure:"equicord" yaml:"equicord,omitempty" json:"equicord,omitempty"`
}

// DirectoriesConfig contains the plugin root directories.
type DirectoriesConfig struct {
	// Vencord is the shared plugin directory
	Vencord string `mapstructure:"vencord" yaml:"vencord" json:"vencord"`

	// Equicord is the fork-only plugin directory
	Equicord string `mapstructure:"equicord" yaml:"equicord" json:"equicord"`
}

// DeprecatedConfig contains deprecated registry configuration.
type DeprecatedConfig struct {
	// Enabled determines whether generate updates the registry
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`

	// Dir is the directory holding deprecated.nix
	Dir string `mapstructure:"dir" yaml:"dir" json:"dir"`
}

// WatchConfig contains file watching configuration.
type WatchConfig struct {
	// Debounce is the debounce duration in milliseconds
	Debounce int `mapstructure:"debounce" yaml:"debounce" json:"debounce"`
}

// configFileNames is the list of config file names to search for (in order).
var configFileNames = []string{
	"plugopts.yaml",
	"plugopts.json",
	".plugopts.yaml",
	".plugopts.json",
}

// supportedFormats is the list of supported output formats.
var supportedFormats = []string{
	"yaml",
	"json",
}

// ErrConfigNotFound is returned when no config file is found.
var ErrConfigNotFound = errors.New("config file not found")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("config validation errors:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Field)
		sb.WriteString(": ")
		sb.WriteString(err.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Sources: SourcesConfig{
			Vencord: ".",
		},
		Directories: DirectoriesConfig{
			Vencord:  "src/plugins",
			Equicord: "src/equicordplugins",
		},
		Output:      "plugins.json",
		Concurrency: 5,
		Deprecated: DeprecatedConfig{
			Enabled: true,
			Dir:     ".",
		},
		Watch: WatchConfig{
			Debounce: 500,
		},
	}
}

// Load loads the configuration from a file.
// It searches for config files in the following order:
// 1. plugopts.yaml
// 2. plugopts.json
// 3. .plugopts.yaml
// 4. .plugopts.json
//
// If configPath is provided, it will use that path instead. Environment
// variables prefixed with PLUGOPTS_ override file values.
func Load(configPath string) (*Config, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		path := ConfigFilePath()
		if path == "" {
			return unmarshal(v)
		}
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) || errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets the default values for viper. Every key is registered so
// AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("sources.vencord", def.Sources.Vencord)
	v.SetDefault("sources.equicord", def.Sources.Equicord)
	v.SetDefault("directories.vencord", def.Directories.Vencord)
	v.SetDefault("directories.equicord", def.Directories.Equicord)
	v.SetDefault("output", def.Output)
	v.SetDefault("format", def.Format)
	v.SetDefault("concurrency", def.Concurrency)
	v.SetDefault("deprecated.enabled", def.Deprecated.Enabled)
	v.SetDefault("deprecated.dir", def.Deprecated.Dir)
	v.SetDefault("watch.debounce", def.Watch.Debounce)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Sources.Vencord == "" {
		errs = append(errs, ValidationError{
			Field:   "sources.vencord",
			Message: "source path is required",
		})
	}

	if c.Directories.Vencord == "" && c.Directories.Equicord == "" {
		errs = append(errs, ValidationError{
			Field:   "directories",
			Message: "at least one plugin directory is required",
		})
	}

	if c.Output == "" {
		errs = append(errs, ValidationError{
			Field:   "output",
			Message: "output path is required",
		})
	}

	if c.Format != "" && !contains(supportedFormats, c.Format) {
		errs = append(errs, ValidationError{
			Field:   "format",
			Message: fmt.Sprintf("unsupported format %q, must be one of: %s", c.Format, strings.Join(supportedFormats, ", ")),
		})
	}

	if c.Concurrency < 1 {
		errs = append(errs, ValidationError{
			Field:   "concurrency",
			Message: "concurrency must be at least 1",
		})
	}

	if c.Watch.Debounce < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce",
			Message: "debounce must be non-negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ConfigFilePath returns the path of the config file in the working
// directory, if any.
func ConfigFilePath() string {
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
