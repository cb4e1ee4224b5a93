// SPDX-License-Identifier: MPL-2.0

//go:build windows

package discovery

import (
	"os"
	"path/filepath"
	"strings"
)

// runtimeDirs lists where the loader runtime is installed on Windows.
func runtimeDirs() []string {
	systemRoot := os.Getenv("SystemRoot")
	if systemRoot == "" {
		systemRoot = `C:\Windows`
	}
	return []string{
		filepath.Join(systemRoot, "System32"),
		filepath.Join(systemRoot, "SysWOW64"),
	}
}

// isRuntimeName matches the loader runtime DLL.
func isRuntimeName(name string) bool {
	return strings.EqualFold(name, "vulkan-1.dll")
}
