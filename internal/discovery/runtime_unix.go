// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package discovery

import "strings"

// runtimeDirs lists the directories where distros install the loader runtime.
func runtimeDirs() []string {
	return []string{
		"/usr/lib",
		"/usr/lib64",
		"/usr/lib/x86_64-linux-gnu",
		"/usr/lib/aarch64-linux-gnu",
		"/usr/local/lib",
		"/usr/local/lib64",
		"/lib",
		"/lib64",
	}
}

// isRuntimeName matches the loader runtime and its soname links
// (libvulkan.so, libvulkan.so.1, libvulkan.so.1.3.280).
func isRuntimeName(name string) bool {
	return strings.HasPrefix(name, "libvulkan.so")
}
