// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vkvia-cli/internal/registry"
)

// Environment variables honored during enumeration. The names are fixed by
// the Vulkan loader contract and must not be renamed.
const (
	// EnvDriverDirs lists extra directories to scan for driver manifests.
	EnvDriverDirs = "VK_DRIVERS_PATH"
	// EnvDriverFiles lists exact driver manifest files, bypassing directory
	// scanning entirely.
	EnvDriverFiles = "VK_ICD_FILENAMES"
	// EnvLayerDirs lists extra directories to scan for explicit layer
	// manifests.
	EnvLayerDirs = "VK_LAYER_PATH"
)

// Registry value names holding per-device manifest paths.
const (
	deviceValueDrivers        = "VulkanDriverName"
	deviceValueImplicitLayers = "VulkanImplicitLayers"
	deviceValueExplicitLayers = "VulkanExplicitLayers"
)

// Origin identifies which enumeration tier produced a manifest candidate.
type Origin string

const (
	// OriginDeviceRegistry marks manifests named by a per-device registry value.
	OriginDeviceRegistry Origin = "device registry"
	// OriginRegistry marks manifests named under the machine-wide registry keys.
	OriginRegistry Origin = "registry"
	// OriginOverridePath marks manifests found in a directory an implicit
	// layer redirected explicit-layer discovery to.
	OriginOverridePath Origin = "override path"
	// OriginWellKnownDir marks manifests found in a standard install directory.
	OriginWellKnownDir Origin = "standard search path"
	// OriginEnvDirs marks manifests found in a directory named by an
	// environment variable.
	OriginEnvDirs Origin = "environment directory"
	// OriginEnvFiles marks manifests named directly by an environment variable.
	OriginEnvFiles Origin = "environment file list"
)

// Location is one manifest candidate: where to read it and which tier
// produced it.
type Location struct {
	// Origin is the enumeration tier.
	Origin Origin
	// Container is the directory, registry key, or environment variable the
	// candidate came from, for report attribution.
	Container string
	// Path is the manifest file path.
	Path string
	// DefaultEnabled carries the registry convention that a zero DWORD value
	// means "enabled by default"; filesystem tiers are always true.
	DefaultEnabled bool
}

// Enumerator walks every configured manifest source for a category. All
// fields are optional-capability style: a nil or unavailable capability
// silently contributes nothing, so the same enumeration logic serves every
// platform.
type Enumerator struct {
	// Store is the platform configuration store (Windows registry, or an
	// empty store elsewhere).
	Store registry.Store
	// Getenv reads environment variables; injected for tests.
	Getenv func(string) string
	// HomeDir anchors the per-user well-known directories. Empty when the
	// home directory is unknown, in which case per-user tiers are skipped.
	HomeDir string
	// ReadDir lists a directory; injected for tests.
	ReadDir func(string) ([]os.DirEntry, error)
	// WellKnownRoots are the base directories holding icd.d,
	// implicit_layer.d and explicit_layer.d subdirectories.
	WellKnownRoots []string
	// ExtraDriverDirs and ExtraLayerDirs come from configuration and extend
	// the well-known tier.
	ExtraDriverDirs []string
	ExtraLayerDirs  []string
}

// NewEnumerator returns an Enumerator wired to the host: platform registry
// store, real environment, and the standard well-known roots.
func NewEnumerator() *Enumerator {
	home, _ := os.UserHomeDir()
	return &Enumerator{
		Store:          registry.NewPlatform(),
		Getenv:         os.Getenv,
		HomeDir:        home,
		ReadDir:        os.ReadDir,
		WellKnownRoots: wellKnownRoots(home),
	}
}

// Drivers enumerates every driver manifest candidate in precedence order:
// per-device registry, machine registry, well-known directories, then the
// VK_DRIVERS_PATH and VK_ICD_FILENAMES overrides. Tiers never suppress one
// another.
func (e *Enumerator) Drivers() ([]Location, []Diagnostic) {
	var locs []Location
	var diags []Diagnostic

	locs, diags = e.deviceRegistryTier(locs, diags, deviceValueDrivers)
	locs, diags = e.registryTier(locs, diags, registry.KeyDrivers)
	for _, dir := range e.categoryDirs("icd.d", e.ExtraDriverDirs) {
		locs, diags = e.scanDir(locs, diags, OriginWellKnownDir, dir)
	}
	for _, dir := range e.envDirList(EnvDriverDirs) {
		locs, diags = e.scanDir(locs, diags, OriginEnvDirs, dir)
	}
	for _, file := range e.envPathList(EnvDriverFiles) {
		locs = append(locs, Location{
			Origin:         OriginEnvFiles,
			Container:      EnvDriverFiles,
			Path:           file,
			DefaultEnabled: true,
		})
	}
	return locs, diags
}

// ImplicitLayers enumerates implicit layer manifest candidates. Implicit
// layers have no environment override tier; the loader contract only defines
// registry and well-known directory sources for them.
func (e *Enumerator) ImplicitLayers() ([]Location, []Diagnostic) {
	var locs []Location
	var diags []Diagnostic

	locs, diags = e.deviceRegistryTier(locs, diags, deviceValueImplicitLayers)
	locs, diags = e.registryTier(locs, diags, registry.KeyImplicitLayers)
	for _, dir := range e.categoryDirs("implicit_layer.d", nil) {
		locs, diags = e.scanDir(locs, diags, OriginWellKnownDir, dir)
	}
	return locs, diags
}

// ExplicitLayers enumerates explicit layer manifest candidates. Override
// paths accumulated from implicit layer manifests are scanned before the
// VK_LAYER_PATH and well-known tiers, mirroring the loader's redirection
// behavior.
func (e *Enumerator) ExplicitLayers(overridePaths []string) ([]Location, []Diagnostic) {
	var locs []Location
	var diags []Diagnostic

	locs, diags = e.deviceRegistryTier(locs, diags, deviceValueExplicitLayers)
	locs, diags = e.registryTier(locs, diags, registry.KeyExplicitLayers)
	for _, dir := range overridePaths {
		locs, diags = e.scanDir(locs, diags, OriginOverridePath, dir)
	}
	for _, dir := range e.envDirList(EnvLayerDirs) {
		locs, diags = e.scanDir(locs, diags, OriginEnvDirs, dir)
	}
	for _, dir := range e.categoryDirs("explicit_layer.d", e.ExtraLayerDirs) {
		locs, diags = e.scanDir(locs, diags, OriginWellKnownDir, dir)
	}
	return locs, diags
}

// deviceRegistryTier appends manifests named by per-device registry values.
func (e *Enumerator) deviceRegistryTier(locs []Location, diags []Diagnostic, valueName string) ([]Location, []Diagnostic) {
	if e.Store == nil || !e.Store.Available() {
		return locs, diags
	}
	devices, err := e.Store.QueryDeviceManifests(valueName)
	if err != nil {
		return locs, warnf(diags, CodeSourceUnavailable, valueName,
			fmt.Sprintf("per-device registry query failed: %v", err))
	}
	for _, dev := range devices {
		for _, path := range dev.Paths {
			locs = append(locs, Location{
				Origin:         OriginDeviceRegistry,
				Container:      dev.Device,
				Path:           path,
				DefaultEnabled: true,
			})
		}
	}
	return locs, diags
}

// registryTier appends manifests listed as values under the machine-wide
// Khronos registry keys, in both hives and both registry views.
func (e *Enumerator) registryTier(locs []Location, diags []Diagnostic, key string) ([]Location, []Diagnostic) {
	if e.Store == nil || !e.Store.Available() {
		return locs, diags
	}
	for _, root := range []registry.Root{registry.LocalMachine, registry.CurrentUser} {
		for _, keyPath := range []string{key, registry.WowKey(key)} {
			values, err := e.Store.QueryValues(root, keyPath)
			if err != nil {
				diags = warnf(diags, CodeSourceUnavailable, registry.DisplayPath(root, keyPath),
					"registry key not present")
				continue
			}
			for _, v := range values {
				locs = append(locs, Location{
					Origin:         OriginRegistry,
					Container:      registry.DisplayPath(root, keyPath),
					Path:           v.Name,
					DefaultEnabled: v.DefaultEnabled,
				})
			}
		}
	}
	return locs, diags
}

// scanDir appends every .json file in dir. A missing directory is normal and
// recorded as a warning so the report can show the location was checked.
func (e *Enumerator) scanDir(locs []Location, diags []Diagnostic, origin Origin, dir string) ([]Location, []Diagnostic) {
	entries, err := e.ReadDir(dir)
	if err != nil {
		return locs, warnf(diags, CodeSourceUnavailable, dir, "directory not present")
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		locs = append(locs, Location{
			Origin:         origin,
			Container:      dir,
			Path:           filepath.Join(dir, name),
			DefaultEnabled: true,
		})
	}
	return locs, diags
}

// categoryDirs joins each well-known root with the category subdirectory and
// appends configured extras.
func (e *Enumerator) categoryDirs(sub string, extra []string) []string {
	dirs := make([]string, 0, len(e.WellKnownRoots)+len(extra))
	for _, root := range e.WellKnownRoots {
		dirs = append(dirs, filepath.Join(root, sub))
	}
	return append(dirs, extra...)
}

// envDirList splits a list-valued environment variable into directories.
func (e *Enumerator) envDirList(name string) []string {
	return e.envPathList(name)
}

// envPathList splits a list-valued environment variable on the platform list
// separator, dropping empty entries.
func (e *Enumerator) envPathList(name string) []string {
	value := e.Getenv(name)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range filepath.SplitList(value) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
