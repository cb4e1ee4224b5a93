// SPDX-License-Identifier: MPL-2.0

//go:build windows

package registry

import (
	"fmt"
	"strings"

	winreg "golang.org/x/sys/windows/registry"
)

// displayClassKey is the device class key for display adapters; each 4-digit
// subkey is one adapter instance whose software key may name Vulkan
// manifests.
const displayClassKey = `SYSTEM\CurrentControlSet\Control\Class\{4d36e968-e325-11ce-bfc1-08002be10318}`

// windowsStore reads the Windows registry through x/sys.
type windowsStore struct{}

// NewPlatform returns the Windows registry store.
func NewPlatform() Store { return windowsStore{} }

// Available implements Store.
func (windowsStore) Available() bool { return true }

func rootKey(root Root) (winreg.Key, error) {
	switch root {
	case LocalMachine:
		return winreg.LOCAL_MACHINE, nil
	case CurrentUser:
		return winreg.CURRENT_USER, nil
	default:
		return 0, fmt.Errorf("unknown registry root %q", root)
	}
}

// QueryValues implements Store. An absent key yields no values and no
// error: discovery treats it as "no candidates at this location".
func (windowsStore) QueryValues(root Root, path string) ([]Value, error) {
	rk, err := rootKey(root)
	if err != nil {
		return nil, err
	}
	key, err := winreg.OpenKey(rk, path, winreg.QUERY_VALUE)
	if err != nil {
		return nil, nil
	}
	defer key.Close()

	names, err := key.ReadValueNames(0)
	if err != nil {
		return nil, fmt.Errorf("enumerating values under %s\\%s: %w", root, path, err)
	}

	values := make([]Value, 0, len(names))
	for _, name := range names {
		data, _, err := key.GetIntegerValue(name)
		if err != nil {
			// Non-numeric data still identifies a manifest; treat as enabled.
			values = append(values, Value{Name: name, DefaultEnabled: true})
			continue
		}
		values = append(values, Value{Name: name, DefaultEnabled: data == 0})
	}
	return values, nil
}

// QueryString implements Store.
func (windowsStore) QueryString(root Root, path, name string) (string, bool) {
	rk, err := rootKey(root)
	if err != nil {
		return "", false
	}
	key, err := winreg.OpenKey(rk, path, winreg.QUERY_VALUE)
	if err != nil {
		return "", false
	}
	defer key.Close()

	value, _, err := key.GetStringValue(name)
	if err != nil {
		return "", false
	}
	return value, true
}

// QueryDeviceManifests implements Store: walks the display-adapter class
// key and reads the named value (e.g. VulkanDriverName) from each adapter
// instance, expanding REG_MULTI_SZ entries to one path each.
func (windowsStore) QueryDeviceManifests(valueName string) ([]DeviceValue, error) {
	classKey, err := winreg.OpenKey(winreg.LOCAL_MACHINE, displayClassKey, winreg.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil, nil
	}
	defer classKey.Close()

	subkeys, err := classKey.ReadSubKeyNames(0)
	if err != nil {
		return nil, fmt.Errorf("enumerating display adapters: %w", err)
	}

	var out []DeviceValue
	for _, sub := range subkeys {
		// Adapter instances are 4-digit keys; skip Properties and friends.
		if len(sub) != 4 {
			continue
		}
		devKey, err := winreg.OpenKey(classKey, sub, winreg.QUERY_VALUE)
		if err != nil {
			continue
		}

		device := displayClassKey + `\` + sub
		if paths, _, err := devKey.GetStringsValue(valueName); err == nil {
			out = append(out, DeviceValue{Device: device, Paths: paths})
		} else if path, _, err := devKey.GetStringValue(valueName); err == nil {
			// Some drivers write REG_SZ with embedded separators.
			split := strings.Split(path, ";")
			out = append(out, DeviceValue{Device: device, Paths: split})
		}
		devKey.Close()
	}
	return out, nil
}
