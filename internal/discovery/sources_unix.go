// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package discovery

import "path/filepath"

// wellKnownRoots lists the base directories whose icd.d, implicit_layer.d and
// explicit_layer.d subdirectories are scanned. The per-user root is skipped
// when the home directory is unknown.
func wellKnownRoots(homeDir string) []string {
	roots := []string{
		"/etc/vulkan",
		"/usr/share/vulkan",
		"/usr/local/etc/vulkan",
		"/usr/local/share/vulkan",
	}
	if homeDir != "" {
		roots = append(roots, filepath.Join(homeDir, ".local", "share", "vulkan"))
	}
	return roots
}
