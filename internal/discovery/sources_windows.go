// SPDX-License-Identifier: MPL-2.0

//go:build windows

package discovery

// wellKnownRoots is empty on Windows: manifests are registered in the
// registry, not installed into conventional directories.
func wellKnownRoots(string) []string { return nil }
