// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"path/filepath"

	"vkvia-cli/internal/registry"
	"vkvia-cli/internal/report"
	"vkvia-cli/pkg/manifest"
)

// Environment variables naming an installed SDK root. Both spellings are in
// circulation; the names must not be renamed.
const (
	// EnvSDKPath is the older SDK root variable.
	EnvSDKPath = "VK_SDK_PATH"
	// EnvVulkanSDK is the variable the SDK's own setup script exports.
	EnvVulkanSDK = "VULKAN_SDK"
)

// sdkRegistryKey is where the SDK installer records itself on Windows.
const sdkRegistryKey = `SOFTWARE\LunarG\VulkanSDK`

// SDKSummary is the outcome of the SDK pass. SDK absence is informational;
// drivers and layers function without a development kit installed.
type SDKSummary struct {
	// Roots are the distinct SDK root directories found.
	Roots []string
	// Diagnostics carries non-fatal findings.
	Diagnostics []Diagnostic
}

// SDKs reports installed Vulkan SDKs: the two environment variables, the
// installer's registry record where a registry exists, and the explicit
// layer manifests each SDK ships.
func (a *Aggregator) SDKs(b *report.Builder) SDKSummary {
	var sum SDKSummary

	b.BeginSection("Vulkan SDKs")
	b.BeginTable("SDK Locations", 3)

	seen := map[string]bool{}
	addRoot := func(source, root string) {
		if root == "" {
			b.AddRow(report.L(source), report.L("(unset)"))
			return
		}
		b.AddRow(report.L(source), report.L(root))
		if !seen[root] {
			seen[root] = true
			sum.Roots = append(sum.Roots, root)
		}
	}

	addRoot(EnvSDKPath, a.Getenv(EnvSDKPath))
	addRoot(EnvVulkanSDK, a.Getenv(EnvVulkanSDK))
	if a.Sources.Store != nil && a.Sources.Store.Available() {
		if dir, ok := a.Sources.Store.QueryString(registry.LocalMachine, sdkRegistryKey, "InstallDir"); ok {
			addRoot("Registry Install Record", dir)
		}
	}

	for _, root := range sum.Roots {
		a.reportSDKLayers(b, root, &sum)
	}
	a.Log.Debug("sdk pass complete", "roots", len(sum.Roots))
	return sum
}

// reportSDKLayers lists the explicit layer manifests bundled with an SDK,
// parsing each just far enough to show its name.
func (a *Aggregator) reportSDKLayers(b *report.Builder, root string, sum *SDKSummary) {
	dir := filepath.Join(root, "etc", "explicit_layer.d")
	entries, err := a.Sources.ReadDir(dir)
	if err != nil {
		sum.Diagnostics = warnf(sum.Diagnostics, CodeSourceUnavailable, dir, "directory not present")
		return
	}

	b.BeginTable("SDK Layers in "+dir, 3)
	count := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		count++
		path := filepath.Join(dir, entry.Name())
		layer, err := manifest.LoadLayer(path)
		if err != nil {
			b.AddRow(report.L(entry.Name()), report.L("ERROR!"), report.L(err.Error()))
			sum.Diagnostics = errorf(sum.Diagnostics, CodeManifestMalformed, path, "SDK layer manifest unparseable", err)
			continue
		}
		b.AddRow(report.L(entry.Name()), report.L(textOr(layer.Name)), report.L(textOr(layer.APIVersion)))
	}
	if count == 0 {
		b.AddRow(report.L("(none found)"))
	}
}
