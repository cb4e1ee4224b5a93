// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// FormatHTML writes the report as a standalone HTML document.
	FormatHTML OutputFormat = "html"
	// FormatConsole renders the report as styled terminal tables.
	FormatConsole OutputFormat = "console"
)

var (
	// ErrInvalidOutputFormat is returned when an OutputFormat value is not recognized.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidOutputPath is returned when an OutputPath value is whitespace-only.
	ErrInvalidOutputPath = errors.New("invalid output path")
	// ErrInvalidSearchDir is the sentinel error wrapped by InvalidSearchDirError.
	ErrInvalidSearchDir = errors.New("invalid search directory")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// OutputFormat selects the report renderer.
	OutputFormat string

	// InvalidOutputFormatError is returned when an OutputFormat value is not
	// recognized. It wraps ErrInvalidOutputFormat for errors.Is() compatibility.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	// OutputPath is a filesystem path for the generated report. The zero
	// value ("") is valid and means "use the default report filename".
	OutputPath string

	// InvalidOutputPathError is returned when an OutputPath value is
	// non-empty but whitespace-only.
	InvalidOutputPathError struct {
		Value OutputPath
	}

	// InvalidSearchDirError is returned when a configured extra search
	// directory is whitespace-only.
	InvalidSearchDirError struct {
		Field string
		Index int
	}

	// InvalidConfigError aggregates the first validation failure found in a
	// Config. It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		Err error
	}

	// OutputConfig controls where and how the report is written.
	OutputConfig struct {
		// Path is the report file or directory; empty uses the default name
		// in the current directory.
		Path OutputPath `mapstructure:"path"`
		// Unique embeds a timestamp in the report filename so repeated runs
		// never overwrite each other.
		Unique bool `mapstructure:"unique"`
		// Format selects the renderer.
		Format OutputFormat `mapstructure:"format"`
	}

	// SearchConfig extends manifest discovery with site-specific directories.
	SearchConfig struct {
		// ExtraDriverDirs are scanned for driver manifests after the
		// standard locations.
		ExtraDriverDirs []string `mapstructure:"extra_driver_dirs"`
		// ExtraLayerDirs are scanned for explicit layer manifests after the
		// standard locations.
		ExtraLayerDirs []string `mapstructure:"extra_layer_dirs"`
	}

	// ValidationConfig controls the vkcube smoke test.
	ValidationConfig struct {
		// Enabled runs the demo as part of the report.
		Enabled bool `mapstructure:"enabled"`
	}

	// UIConfig holds terminal output preferences.
	UIConfig struct {
		// Verbose enables debug logging.
		Verbose bool `mapstructure:"verbose"`
	}

	// Config is the complete application configuration.
	Config struct {
		Output     OutputConfig     `mapstructure:"output"`
		Search     SearchConfig     `mapstructure:"search"`
		Validation ValidationConfig `mapstructure:"validation"`
		UI         UIConfig         `mapstructure:"ui"`
	}
)

// Error implements the error interface.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (must be %q or %q)", e.Value, FormatHTML, FormatConsole)
}

// Unwrap returns the sentinel error for errors.Is() checks.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

// Validate checks that the OutputFormat is a recognized value.
func (f OutputFormat) Validate() error {
	switch f {
	case FormatHTML, FormatConsole:
		return nil
	default:
		return &InvalidOutputFormatError{Value: f}
	}
}

// Error implements the error interface.
func (e *InvalidOutputPathError) Error() string {
	return fmt.Sprintf("invalid output path %q (must not be whitespace-only)", string(e.Value))
}

// Unwrap returns the sentinel error for errors.Is() checks.
func (e *InvalidOutputPathError) Unwrap() error { return ErrInvalidOutputPath }

// Validate checks that a non-empty OutputPath has real content.
func (p OutputPath) Validate() error {
	if p != "" && strings.TrimSpace(string(p)) == "" {
		return &InvalidOutputPathError{Value: p}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidSearchDirError) Error() string {
	return fmt.Sprintf("%s[%d]: directory must not be empty or whitespace-only", e.Field, e.Index)
}

// Unwrap returns the sentinel error for errors.Is() checks.
func (e *InvalidSearchDirError) Unwrap() error { return ErrInvalidSearchDir }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", e.Err)
}

// Unwrap returns the wrapped validation failure.
func (e *InvalidConfigError) Unwrap() error { return e.Err }

// Validate checks every field of the configuration, returning the first
// failure wrapped in InvalidConfigError.
func (c *Config) Validate() error {
	if err := c.Output.Format.Validate(); err != nil {
		return &InvalidConfigError{Err: err}
	}
	if err := c.Output.Path.Validate(); err != nil {
		return &InvalidConfigError{Err: err}
	}
	for i, dir := range c.Search.ExtraDriverDirs {
		if strings.TrimSpace(dir) == "" {
			return &InvalidConfigError{Err: &InvalidSearchDirError{Field: "search.extra_driver_dirs", Index: i}}
		}
	}
	for i, dir := range c.Search.ExtraLayerDirs {
		if strings.TrimSpace(dir) == "" {
			return &InvalidConfigError{Err: &InvalidSearchDirError{Field: "search.extra_layer_dirs", Index: i}}
		}
	}
	return nil
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format: FormatHTML,
		},
		Validation: ValidationConfig{
			Enabled: true,
		},
	}
}
