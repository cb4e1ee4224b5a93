// SPDX-License-Identifier: MPL-2.0

//go:build windows

package validate

func exeName(name string) string { return name + ".exe" }
