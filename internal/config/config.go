// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"vkvia-cli/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "vkvia"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "yaml"
	// envPrefix namespaces environment overrides (VKVIA_OUTPUT_FORMAT etc.).
	envPrefix = "VKVIA"
)

// ConfigDir returns the vkvia configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level cache state. Callers that want caching can wrap this function.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("output.path", string(defaults.Output.Path))
	v.SetDefault("output.unique", defaults.Output.Unique)
	v.SetDefault("output.format", string(defaults.Output.Format))
	v.SetDefault("search.extra_driver_dirs", defaults.Search.ExtraDriverDirs)
	v.SetDefault("search.extra_layer_dirs", defaults.Search.ExtraLayerDirs)
	v.SetDefault("validation.enabled", defaults.Validation.Enabled)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath := ""

	// If a custom config file path is set via --config flag, use it exclusively.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'vkvia config show' to see the effective configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		if err := readConfigFile(v, opts.ConfigFilePath); err != nil {
			return nil, "", wrapConfigReadError(opts.ConfigFilePath, err)
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		// Get config directory
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, "", err
		}

		cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		if fileExists(cfgPath) {
			if err := readConfigFile(v, cfgPath); err != nil {
				return nil, "", wrapConfigReadError(cfgPath, err)
			}
			resolvedPath = cfgPath
		}
		// If no config file found, use defaults (no error)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check output.format is \"html\" or \"console\"").
			WithSuggestion("Check every search directory entry is a real path").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

func readConfigFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	v.SetConfigType(ConfigFileExt)
	return v.ReadInConfig()
}

func wrapConfigReadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid YAML syntax").
		WithSuggestion("Verify the configuration keys match 'vkvia config show' output").
		Wrap(err).
		BuildError()
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}

// Save writes the current configuration to file
func Save(cfg *Config) error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	if err := os.WriteFile(cfgPath, []byte(GenerateYAML(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateYAML generates a YAML representation of the configuration.
func GenerateYAML(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("# vkvia configuration file\n\n")

	sb.WriteString("output:\n")
	if cfg.Output.Path != "" {
		sb.WriteString(fmt.Sprintf("  path: %q\n", string(cfg.Output.Path)))
	}
	sb.WriteString(fmt.Sprintf("  unique: %v\n", cfg.Output.Unique))
	sb.WriteString(fmt.Sprintf("  format: %q\n", string(cfg.Output.Format)))

	if len(cfg.Search.ExtraDriverDirs) > 0 || len(cfg.Search.ExtraLayerDirs) > 0 {
		sb.WriteString("\nsearch:\n")
		writeDirList(&sb, "extra_driver_dirs", cfg.Search.ExtraDriverDirs)
		writeDirList(&sb, "extra_layer_dirs", cfg.Search.ExtraLayerDirs)
	}

	sb.WriteString("\nvalidation:\n")
	sb.WriteString(fmt.Sprintf("  enabled: %v\n", cfg.Validation.Enabled))

	sb.WriteString("\nui:\n")
	sb.WriteString(fmt.Sprintf("  verbose: %v\n", cfg.UI.Verbose))

	return sb.String()
}

func writeDirList(sb *strings.Builder, key string, dirs []string) {
	if len(dirs) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("  %s:\n", key))
	for _, dir := range dirs {
		sb.WriteString(fmt.Sprintf("    - %q\n", dir))
	}
}
