// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package probe

import "github.com/ebitengine/purego"

// platformLoader probes with dlopen/dlclose.
type platformLoader struct{}

// TryLoad implements Loader. The handle is released immediately; the probe
// must not leave libraries mapped into the analyzer process.
func (platformLoader) TryLoad(path string) (bool, string) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return false, err.Error()
	}
	_ = purego.Dlclose(handle)
	return true, ""
}

// FileVersion implements Loader. ELF shared objects carry no version
// resource; absence is not an error.
func (platformLoader) FileVersion(string) (string, bool) { return "", false }

// systemLibraryDirs lists the directories the dynamic linker searches by
// convention, used as fallback when a manifest names a bare filename.
func systemLibraryDirs() []string {
	return []string{
		"/usr/lib",
		"/usr/lib64",
		"/usr/lib/x86_64-linux-gnu",
		"/usr/local/lib",
		"/usr/local/lib64",
		"/lib",
		"/lib64",
	}
}
