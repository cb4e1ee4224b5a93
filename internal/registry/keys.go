// SPDX-License-Identifier: MPL-2.0

package registry

import "strings"

// Khronos discovery key paths. The value names under these keys are manifest
// file paths; the DWORD data is the disable flag (zero means enabled).
const (
	// KeyDrivers lists driver manifests.
	KeyDrivers = `SOFTWARE\Khronos\Vulkan\Drivers`
	// KeyImplicitLayers lists implicit layer manifests.
	KeyImplicitLayers = `SOFTWARE\Khronos\Vulkan\ImplicitLayers`
	// KeyExplicitLayers lists explicit layer manifests.
	KeyExplicitLayers = `SOFTWARE\Khronos\Vulkan\ExplicitLayers`
)

// WowKey returns the 32-bit registry view path for a Khronos key, where
// 32-bit components register on a 64-bit system.
func WowKey(key string) string {
	return strings.Replace(key, `SOFTWARE\`, `SOFTWARE\WOW6432Node\`, 1)
}

// DisplayPath renders a root and key path the way regedit shows them, for
// report attribution.
func DisplayPath(root Root, key string) string {
	return string(root) + `\` + key
}
