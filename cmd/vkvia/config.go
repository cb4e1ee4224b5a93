// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"vkvia-cli/internal/config"
	"vkvia-cli/internal/issue"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vkvia configuration",
	Long: `Manage vkvia configuration.

Configuration is stored in:
  - Linux: ~/.config/vkvia/config.yaml
  - macOS: ~/Library/Application Support/vkvia/config.yaml
  - Windows: %APPDATA%\vkvia\config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(args[0], args[1])
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			fmt.Print(config.GenerateYAML(cfg))
			return nil
		},
	})
}

func showConfig() error {
	cfg, err := config.Load()
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
		return err
	}

	// Style definitions using shared color palette
	headerStyle := TitleStyle
	keyStyle := ValueStyle
	valueStyle := SuccessStyle

	fmt.Println(headerStyle.Render("Current Configuration"))
	fmt.Println()

	if cfgPath, pathErr := configFilePath(); pathErr == nil && fileExistsCheck(cfgPath) {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s:\n", keyStyle.Render("output"))
	if cfg.Output.Path == "" {
		fmt.Printf("  path: %s\n", SubtitleStyle.Render("(current directory)"))
	} else {
		fmt.Printf("  path: %s\n", valueStyle.Render(string(cfg.Output.Path)))
	}
	fmt.Printf("  unique: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Output.Unique)))
	fmt.Printf("  format: %s\n", valueStyle.Render(string(cfg.Output.Format)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("search"))
	printDirList("extra_driver_dirs", cfg.Search.ExtraDriverDirs, valueStyle)
	printDirList("extra_layer_dirs", cfg.Search.ExtraLayerDirs, valueStyle)

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("validation"))
	fmt.Printf("  enabled: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Validation.Enabled)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func printDirList(key string, dirs []string, valueStyle lipgloss.Style) {
	fmt.Printf("  %s:\n", key)
	if len(dirs) == 0 {
		fmt.Printf("    %s\n", SubtitleStyle.Render("(none configured)"))
		return
	}
	for _, dir := range dirs {
		fmt.Printf("    - %s\n", valueStyle.Render(dir))
	}
}

func initConfig() error {
	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}
	if fileExistsCheck(cfgPath) {
		return fmt.Errorf("config file already exists at %s", cfgPath)
	}

	if err := config.Save(config.DefaultConfig()); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s\n", SuccessStyle.Render("✓"), cfgPath)
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s\n", filepath.Join(cfgDir, "config."+config.ConfigFileExt))
	return nil
}

func setConfigValue(key, value string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch key {
	case "output.path":
		cfg.Output.Path = config.OutputPath(value)

	case "output.unique":
		cfg.Output.Unique = value == "true" || value == "1"

	case "output.format":
		format := config.OutputFormat(value)
		if err := format.Validate(); err != nil {
			return err
		}
		cfg.Output.Format = format

	case "validation.enabled":
		cfg.Validation.Enabled = value == "true" || value == "1"

	case "ui.verbose":
		cfg.UI.Verbose = value == "true" || value == "1"

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: output.path, output.unique, output.format, validation.enabled, ui.verbose", key)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

func configFilePath() (string, error) {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, "config."+config.ConfigFileExt), nil
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
