// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseDriver_Complete(t *testing.T) {
	data := []byte(`{
		"file_format_version": "1.0.0",
		"ICD": {
			"api_version": "1.2.162",
			"library_path": "../lib/libvulkan_intel.so",
			"device_extensions": [
				{"name": "VK_KHR_swapchain", "spec_version": "70"},
				{"name": "VK_KHR_maintenance1", "spec_version": "2"}
			],
			"instance_extensions": [
				{"name": "VK_KHR_surface", "spec_version": "25"}
			]
		}
	}`)

	d, err := ParseDriver("/etc/vulkan/icd.d/intel_icd.json", data)
	if err != nil {
		t.Fatalf("ParseDriver: %v", err)
	}
	if !d.HasICDSection {
		t.Error("HasICDSection = false, want true")
	}
	if d.FileFormatVersion == nil || *d.FileFormatVersion != "1.0.0" {
		t.Errorf("FileFormatVersion = %v, want 1.0.0", d.FileFormatVersion)
	}
	if d.APIVersion == nil || *d.APIVersion != "1.2.162" {
		t.Errorf("APIVersion = %v, want 1.2.162", d.APIVersion)
	}
	if d.LibraryReference == nil || *d.LibraryReference != "../lib/libvulkan_intel.so" {
		t.Errorf("LibraryReference = %v, want ../lib/libvulkan_intel.so", d.LibraryReference)
	}
	if len(d.DeviceExtensions) != 2 {
		t.Fatalf("DeviceExtensions count = %d, want 2", len(d.DeviceExtensions))
	}
	if d.DeviceExtensions[0].Name != "VK_KHR_swapchain" || d.DeviceExtensions[1].Name != "VK_KHR_maintenance1" {
		t.Errorf("DeviceExtensions order not preserved: %+v", d.DeviceExtensions)
	}
	if len(d.InstanceExtensions) != 1 || d.InstanceExtensions[0].SpecVersion != "25" {
		t.Errorf("InstanceExtensions = %+v", d.InstanceExtensions)
	}
}

func TestParseDriver_MissingICDSection(t *testing.T) {
	// Syntactically valid JSON without the ICD section parses successfully
	// and is flagged, not dropped.
	d, err := ParseDriver("x.json", []byte(`{"file_format_version": "1.0.0"}`))
	if err != nil {
		t.Fatalf("ParseDriver: %v", err)
	}
	if d.HasICDSection {
		t.Error("HasICDSection = true, want false")
	}
	if d.FileFormatVersion == nil {
		t.Error("FileFormatVersion should still be populated")
	}
}

func TestParseDriver_MissingFieldsInsideICD(t *testing.T) {
	d, err := ParseDriver("x.json", []byte(`{"ICD": {}}`))
	if err != nil {
		t.Fatalf("ParseDriver: %v", err)
	}
	if !d.HasICDSection {
		t.Error("HasICDSection = false, want true")
	}
	if d.APIVersion != nil {
		t.Error("APIVersion should be marked missing")
	}
	if d.LibraryReference != nil {
		t.Error("LibraryReference should be marked missing")
	}
	if d.FileFormatVersion != nil {
		t.Error("FileFormatVersion should be marked missing")
	}
}

func TestParseDriver_Malformed(t *testing.T) {
	_, err := ParseDriver("bad.json", []byte(`{"ICD": `))
	if err == nil {
		t.Fatal("ParseDriver should fail on malformed JSON")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if parseErr.Detail == "" {
		t.Error("ParseError should carry the decoder diagnostic")
	}
}

func TestLoadDriver_Unreadable(t *testing.T) {
	_, err := LoadDriver(filepath.Join(t.TempDir(), "absent.json"))
	var unreadable *UnreadableError
	if !errors.As(err, &unreadable) {
		t.Fatalf("error type = %T, want *UnreadableError", err)
	}
}

func TestLoadDriver_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vendor_icd.json")
	content := `{"file_format_version":"1.0.1","ICD":{"api_version":"1.3.0","library_path":"libvendor.so"}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := LoadDriver(path)
	if err != nil {
		t.Fatalf("LoadDriver: %v", err)
	}
	if d.Path != path {
		t.Errorf("Path = %s, want %s", d.Path, path)
	}
	if d.APIVersion == nil || *d.APIVersion != "1.3.0" {
		t.Errorf("APIVersion = %v", d.APIVersion)
	}
}

func TestParseLayer_Explicit(t *testing.T) {
	data := []byte(`{
		"file_format_version": "1.1.2",
		"layer": {
			"name": "VK_LAYER_LUNARG_api_dump",
			"description": "LunarG API dump layer",
			"api_version": "1.2.162",
			"library_path": "./libVkLayer_api_dump.so",
			"device_extensions": [{"name": "VK_EXT_debug_marker", "spec_version": "4"}]
		}
	}`)

	l, err := ParseLayer("/usr/share/vulkan/explicit_layer.d/api_dump.json", data)
	if err != nil {
		t.Fatalf("ParseLayer: %v", err)
	}
	if !l.HasLayerSection {
		t.Fatal("HasLayerSection = false")
	}
	if l.Name == nil || *l.Name != "VK_LAYER_LUNARG_api_dump" {
		t.Errorf("Name = %v", l.Name)
	}
	if l.Spec != LibraryPath {
		t.Errorf("Spec = %v, want LibraryPath", l.Spec)
	}
	if l.EnableToggle != "" || l.DisableToggle != "" {
		t.Error("explicit layer should have no toggles")
	}
}

func TestParseLayer_MetaLayerAndConflicts(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected LibrarySpec
	}{
		{
			name:     "component layers only",
			body:     `{"layer": {"name": "VK_LAYER_meta", "component_layers": ["VK_LAYER_a", "VK_LAYER_b"]}}`,
			expected: LibraryComponents,
		},
		{
			name:     "both defined",
			body:     `{"layer": {"name": "VK_LAYER_bad", "library_path": "a.so", "component_layers": ["VK_LAYER_a"]}}`,
			expected: LibraryConflict,
		},
		{
			name:     "neither defined",
			body:     `{"layer": {"name": "VK_LAYER_incomplete"}}`,
			expected: LibraryMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := ParseLayer("layer.json", []byte(tt.body))
			if err != nil {
				t.Fatalf("ParseLayer: %v", err)
			}
			if l.Spec != tt.expected {
				t.Errorf("Spec = %v, want %v", l.Spec, tt.expected)
			}
		})
	}
}

func TestParseLayer_MissingLayerSection(t *testing.T) {
	l, err := ParseLayer("layer.json", []byte(`{"file_format_version": "1.0.0"}`))
	if err != nil {
		t.Fatalf("ParseLayer: %v", err)
	}
	if l.HasLayerSection {
		t.Error("HasLayerSection = true, want false")
	}
}

func TestParseLayer_ImplicitFields(t *testing.T) {
	data := []byte(`{
		"file_format_version": "1.1.2",
		"layer": {
			"name": "VK_LAYER_VENDOR_overlay",
			"library_path": "liboverlay.so",
			"enable_environment": {"ENABLE_VENDOR_OVERLAY": "1"},
			"disable_environment": {"DISABLE_VENDOR_OVERLAY": "1"},
			"expiration": "2026-11-01-00-00",
			"override_paths": ["/opt/vendor/layers", "/opt/vendor/extra"]
		}
	}`)

	l, err := ParseLayer("overlay.json", data)
	if err != nil {
		t.Fatalf("ParseLayer: %v", err)
	}
	if l.EnableToggle != "ENABLE_VENDOR_OVERLAY" {
		t.Errorf("EnableToggle = %q", l.EnableToggle)
	}
	if l.DisableToggle != "DISABLE_VENDOR_OVERLAY" {
		t.Errorf("DisableToggle = %q", l.DisableToggle)
	}
	if l.Expiration == nil {
		t.Fatal("Expiration not parsed")
	}
	if l.Expiration.Year != 2026 || l.Expiration.Month != 11 {
		t.Errorf("Expiration = %+v", *l.Expiration)
	}
	if len(l.OverridePaths) != 2 || l.OverridePaths[0] != "/opt/vendor/layers" {
		t.Errorf("OverridePaths = %v", l.OverridePaths)
	}
}

func TestParseExpiration(t *testing.T) {
	exp, err := ParseExpiration("2025-06-15-12-30")
	if err != nil {
		t.Fatalf("ParseExpiration: %v", err)
	}
	want := Expiration{Year: 2025, Month: 6, Day: 15, Hour: 12, Minute: 30}
	if exp != want {
		t.Errorf("ParseExpiration = %+v, want %+v", exp, want)
	}

	for _, bad := range []string{"", "2025-06-15", "not-a-date-at-all", "20250615123000xx"} {
		if _, err := ParseExpiration(bad); err == nil {
			t.Errorf("ParseExpiration(%q) should fail", bad)
		}
	}
}

func TestExpiration_ExpiredAt(t *testing.T) {
	exp := Expiration{Year: 2025, Month: 6, Day: 15, Hour: 12, Minute: 30}
	cutoff := time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)

	if exp.ExpiredAt(cutoff.Add(-time.Minute)) {
		t.Error("one minute before cutoff should not be expired")
	}
	if !exp.ExpiredAt(cutoff) {
		t.Error("exactly at cutoff should be expired (strictly-before semantics)")
	}
	if !exp.ExpiredAt(cutoff.Add(time.Hour)) {
		t.Error("after cutoff should be expired")
	}
}

func TestParseLayer_JSONCTolerated(t *testing.T) {
	data := []byte(`{
		// vendor annotation
		"layer": {
			"name": "VK_LAYER_commented",
			"library_path": "lib.so",
		}
	}`)
	l, err := ParseLayer("commented.json", data)
	if err != nil {
		t.Fatalf("ParseLayer: %v", err)
	}
	if l.Name == nil || *l.Name != "VK_LAYER_commented" {
		t.Errorf("Name = %v", l.Name)
	}
}
