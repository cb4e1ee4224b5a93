// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with YAML as the file format.
//
// Configuration is loaded from ~/.config/vkvia/config.yaml (or XDG equivalent on Linux,
// ~/Library/Application Support/vkvia/config.yaml on macOS, %APPDATA%\vkvia\config.yaml
// on Windows). The package provides type-safe configuration access covering report output,
// extra manifest search directories, and the validation smoke test, with VKVIA_-prefixed
// environment variables overriding file values.
package config
