// SPDX-License-Identifier: MPL-2.0

// Package registry abstracts the platform configuration store consulted
// during manifest discovery. On Windows this is the Windows registry; other
// platforms have no such store and get the empty implementation, which lets
// the precedence and aggregation logic be written exactly once.
package registry

// Root identifies a configuration-store root.
type Root string

const (
	// LocalMachine is the system-wide root (HKEY_LOCAL_MACHINE).
	LocalMachine Root = "HKEY_LOCAL_MACHINE"
	// CurrentUser is the per-user root (HKEY_CURRENT_USER).
	CurrentUser Root = "HKEY_CURRENT_USER"
)

// Value is one named entry under a store path. For Vulkan discovery keys
// the value NAME is the manifest path and the numeric data is the disable
// flag: zero means enabled by default.
type Value struct {
	Name           string
	DefaultEnabled bool
}

// DeviceValue is a per-hardware-device manifest reference: one device key
// may carry a single path or, for multi-valued entries, several.
type DeviceValue struct {
	// Device identifies the hardware device the entry belongs to.
	Device string
	// Paths are the manifest file paths the device key names.
	Paths []string
}

// Store is the configuration-store capability consumed by discovery.
// Missing keys are not errors: implementations return empty results.
type Store interface {
	// QueryValues enumerates the named values under root\path.
	QueryValues(root Root, path string) ([]Value, error)
	// QueryString reads a single string value; ok is false when absent.
	QueryString(root Root, path, name string) (value string, ok bool)
	// QueryDeviceManifests reads the named value from every discovered
	// display device's software key, expanding multi-valued entries.
	QueryDeviceManifests(valueName string) ([]DeviceValue, error)
	// Available reports whether this platform has a configuration store
	// at all; when false the registry tiers are skipped entirely.
	Available() bool
}

// Empty is the Store for platforms without a configuration store.
type Empty struct{}

// QueryValues implements Store with no results.
func (Empty) QueryValues(Root, string) ([]Value, error) { return nil, nil }

// QueryString implements Store with no result.
func (Empty) QueryString(Root, string, string) (string, bool) { return "", false }

// QueryDeviceManifests implements Store with no results.
func (Empty) QueryDeviceManifests(string) ([]DeviceValue, error) { return nil, nil }

// Available implements Store.
func (Empty) Available() bool { return false }
