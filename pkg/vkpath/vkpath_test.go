// SPDX-License-Identifier: MPL-2.0

package vkpath

import "testing"

func TestIsAbs(t *testing.T) {
	tests := []struct {
		ref      string
		expected bool
	}{
		{"/usr/lib/libvulkan_intel.so", true},
		{`\drivers\nvoglv64.dll`, true},
		{`C:\Windows\System32\nvoglv64.dll`, true},
		{"c:/drivers/amdvlk64.dll", true},
		{"libvulkan_intel.so", false},
		{"../lib/libVkLayer_api_dump.so", false},
		{"./libVkLayer_api_dump.so", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			if got := IsAbs(tt.ref); got != tt.expected {
				t.Errorf("IsAbs(%q) = %v, want %v", tt.ref, got, tt.expected)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		ref      string
		expected string
	}{
		{
			name:     "absolute reference returned unchanged",
			manifest: "/etc/vulkan/icd.d/intel_icd.json",
			ref:      "/usr/lib/libvulkan_intel.so",
			expected: "/usr/lib/libvulkan_intel.so",
		},
		{
			name:     "windows absolute reference",
			manifest: `C:\Khronos\nv-vk64.json`,
			ref:      `C:\Windows\System32\nvoglv64.dll`,
			expected: `C:\Windows\System32\nvoglv64.dll`,
		},
		{
			name:     "bare filename relative to manifest directory",
			manifest: "/etc/vulkan/icd.d/intel_icd.json",
			ref:      "libvulkan_intel.so",
			expected: "/etc/vulkan/icd.d/libvulkan_intel.so",
		},
		{
			name:     "single parent traversal",
			manifest: "/usr/share/vulkan/icd.d/radeon_icd.json",
			ref:      "../lib/libvulkan_radeon.so",
			expected: "/usr/share/vulkan/lib/libvulkan_radeon.so",
		},
		{
			name:     "double parent traversal",
			manifest: "/a/b/c/m.json",
			ref:      "../../x",
			expected: "/a/x",
		},
		{
			name:     "traversal past root is a no-op",
			manifest: "/m.json",
			ref:      "../../../x",
			expected: "/x",
		},
		{
			name:     "current directory segments stripped",
			manifest: "/etc/vulkan/icd.d/intel_icd.json",
			ref:      "./libvulkan_intel.so",
			expected: "/etc/vulkan/icd.d/libvulkan_intel.so",
		},
		{
			name:     "backslash reference against forward-slash manifest",
			manifest: "/etc/vulkan/icd.d/vendor.json",
			ref:      `..\lib\vendor.so`,
			expected: `/etc/vulkan/lib\vendor.so`,
		},
		{
			name:     "windows manifest with relative reference",
			manifest: `C:\VulkanSDK\Bin\VkLayer_api_dump.json`,
			ref:      `.\VkLayer_api_dump.dll`,
			expected: `C:\VulkanSDK\Bin\VkLayer_api_dump.dll`,
		},
		{
			name:     "manifest without directory component",
			manifest: "driver.json",
			ref:      "libdriver.so",
			expected: "libdriver.so",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.manifest, tt.ref)
			if err != nil {
				t.Fatalf("Resolve(%q, %q) error: %v", tt.manifest, tt.ref, err)
			}
			if got != tt.expected {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.manifest, tt.ref, got, tt.expected)
			}
		})
	}
}

func TestResolve_EmptyInputs(t *testing.T) {
	if _, err := Resolve("", "libvulkan.so"); err == nil {
		t.Error("Resolve with empty manifest path should fail")
	}
	if _, err := Resolve("/etc/vulkan/icd.d/a.json", ""); err == nil {
		t.Error("Resolve with empty reference should fail")
	}
}
