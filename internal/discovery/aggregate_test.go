// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"vkvia-cli/internal/clock"
	"vkvia-cli/internal/probe"
	"vkvia-cli/internal/report"
)

// scriptedLoader marks every existing file loadable unless listed in reject.
type scriptedLoader struct {
	reject map[string]string
}

func (s *scriptedLoader) TryLoad(path string) (bool, string) {
	if diag, ok := s.reject[path]; ok {
		return false, diag
	}
	return true, ""
}

func (s *scriptedLoader) FileVersion(string) (string, bool) { return "", false }

func newTestAggregator(e *Enumerator, env map[string]string) *Aggregator {
	return &Aggregator{
		Sources: e,
		Prober:  probe.NewWithLoader(&scriptedLoader{}, nil),
		Clock:   clock.NewFake(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)),
		Getenv:  envFrom(env),
		Log:     log.New(io.Discard),
	}
}

func writeManifest(t *testing.T, dir, name, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func reportText(b *report.Builder) string {
	var sb strings.Builder
	for _, sec := range b.Report().Sections {
		for _, tbl := range sec.Tables {
			for _, row := range tbl.Rows {
				for _, cell := range row {
					sb.WriteString(cell.Text)
					sb.WriteString("|")
				}
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

func TestDrivers_HealthyInstallation(t *testing.T) {
	root := t.TempDir()
	icdDir := filepath.Join(root, "icd.d")
	writeManifest(t, icdDir, "vendor_icd.json", `{
		"file_format_version": "1.0.0",
		"ICD": {
			"api_version": "1.3.280",
			"library_path": "./libvendor_icd.so"
		}
	}`)
	if err := os.WriteFile(filepath.Join(icdDir, "libvendor_icd.so"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	a := newTestAggregator(newTestEnumerator([]string{root}, nil), nil)
	b := report.NewBuilder("test")
	sum := a.Drivers(b)

	if sum.Verdict != VerdictSuccess {
		t.Errorf("Verdict = %s, want SUCCESS", sum.Verdict)
	}
	if sum.Found != 1 || sum.Parsed != 1 || sum.Loadable != 1 {
		t.Errorf("counts = %+v", sum)
	}

	text := reportText(b)
	if !strings.Contains(text, "1.3.280") {
		t.Error("report missing API version")
	}
	if !strings.Contains(text, "FOUND") {
		t.Error("report missing library location result")
	}
}

func TestDrivers_NoManifestsAnywhere(t *testing.T) {
	a := newTestAggregator(newTestEnumerator([]string{"/nonexistent-root"}, nil), nil)
	b := report.NewBuilder("test")
	sum := a.Drivers(b)

	if sum.Verdict != VerdictMissingDriverJSON {
		t.Errorf("Verdict = %s, want MISSING_DRIVER_JSON", sum.Verdict)
	}
}

func TestDrivers_ManifestWithoutLibrary(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "icd.d"), "vendor_icd.json", `{
		"file_format_version": "1.0.0",
		"ICD": {
			"api_version": "1.3.280",
			"library_path": "./libgone.so"
		}
	}`)

	a := newTestAggregator(newTestEnumerator([]string{root}, nil), nil)
	b := report.NewBuilder("test")
	sum := a.Drivers(b)

	if sum.Verdict != VerdictMissingDriverLib {
		t.Errorf("Verdict = %s, want MISSING_DRIVER_LIB", sum.Verdict)
	}
	if sum.Parsed != 1 {
		t.Errorf("Parsed = %d, want 1; a missing library must not fail the parse count", sum.Parsed)
	}
}

func TestDrivers_OnlyMalformedManifests(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "icd.d"), "broken_icd.json", `{"ICD": not json`)

	a := newTestAggregator(newTestEnumerator([]string{root}, nil), nil)
	b := report.NewBuilder("test")
	sum := a.Drivers(b)

	if sum.Verdict != VerdictDriverJSONParseError {
		t.Errorf("Verdict = %s, want DRIVER_JSON_PARSING_ERROR", sum.Verdict)
	}
	found := false
	for _, d := range sum.Diagnostics {
		if d.Code == CodeManifestMalformed {
			found = true
		}
	}
	if !found {
		t.Error("no manifest_malformed diagnostic recorded")
	}
}

func TestDrivers_BadManifestDoesNotAbortSiblings(t *testing.T) {
	root := t.TempDir()
	icdDir := filepath.Join(root, "icd.d")
	writeManifest(t, icdDir, "a_broken.json", `}{`)
	writeManifest(t, icdDir, "b_good.json", `{
		"file_format_version": "1.0.0",
		"ICD": {"api_version": "1.2.0", "library_path": "./libok.so"}
	}`)
	if err := os.WriteFile(filepath.Join(icdDir, "libok.so"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	a := newTestAggregator(newTestEnumerator([]string{root}, nil), nil)
	sum := a.Drivers(report.NewBuilder("test"))

	if sum.Parsed != 1 || sum.Loadable != 1 {
		t.Errorf("counts = %+v; the good sibling must still be processed", sum)
	}
	if sum.Verdict != VerdictSuccess {
		t.Errorf("Verdict = %s, want SUCCESS", sum.Verdict)
	}
}

func TestDrivers_ExtensionOrderPreserved(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "icd.d"), "vendor_icd.json", `{
		"file_format_version": "1.0.0",
		"ICD": {
			"api_version": "1.3.0",
			"library_path": "./libv.so",
			"instance_extensions": [
				{"name": "VK_KHR_surface", "spec_version": "25"},
				{"name": "VK_KHR_display", "spec_version": "23"},
				{"name": "VK_EXT_debug_utils", "spec_version": "2"}
			]
		}
	}`)

	a := newTestAggregator(newTestEnumerator([]string{root}, nil), nil)
	b := report.NewBuilder("test")
	a.Drivers(b)

	text := reportText(b)
	surface := strings.Index(text, "VK_KHR_surface")
	display := strings.Index(text, "VK_KHR_display")
	debug := strings.Index(text, "VK_EXT_debug_utils")
	if surface < 0 || display < 0 || debug < 0 {
		t.Fatal("extensions missing from report")
	}
	if !(surface < display && display < debug) {
		t.Error("extension rows out of manifest order")
	}
}

func TestImplicitLayers_OverridePathsFlowToExplicitPass(t *testing.T) {
	overrideDir := t.TempDir()
	writeManifest(t, overrideDir, "redirected_layer.json", `{
		"file_format_version": "1.1.2",
		"layer": {
			"name": "VK_LAYER_TEST_redirected",
			"description": "redirected explicit layer",
			"api_version": "1.3.0",
			"library_path": "./libred.so"
		}
	}`)

	implicitRoot := t.TempDir()
	writeManifest(t, filepath.Join(implicitRoot, "implicit_layer.d"), "override_layer.json", fmt.Sprintf(`{
		"file_format_version": "1.1.2",
		"layer": {
			"name": "VK_LAYER_TEST_override",
			"description": "override meta layer",
			"api_version": "1.3.0",
			"component_layers": ["VK_LAYER_TEST_redirected"],
			"disable_environment": {"DISABLE_OVERRIDE": "1"},
			"override_paths": [%q]
		}
	}`, overrideDir))

	a := newTestAggregator(newTestEnumerator([]string{implicitRoot}, nil), nil)
	b := report.NewBuilder("test")

	implicit := a.ImplicitLayers(b)
	if len(implicit.OverridePaths) != 1 || implicit.OverridePaths[0] != overrideDir {
		t.Fatalf("OverridePaths = %v, want [%s]", implicit.OverridePaths, overrideDir)
	}

	explicit := a.ExplicitLayers(b, implicit.OverridePaths)
	if explicit.Parsed != 1 {
		t.Fatalf("explicit Parsed = %d, want the redirected layer", explicit.Parsed)
	}
	if !strings.Contains(reportText(b), "VK_LAYER_TEST_redirected") {
		t.Error("redirected layer missing from report")
	}
}

func TestImplicitLayers_DisabledLayerDoesNotContributeOverrides(t *testing.T) {
	implicitRoot := t.TempDir()
	writeManifest(t, filepath.Join(implicitRoot, "implicit_layer.d"), "override_layer.json", `{
		"file_format_version": "1.1.2",
		"layer": {
			"name": "VK_LAYER_TEST_override",
			"api_version": "1.3.0",
			"component_layers": ["VK_LAYER_TEST_other"],
			"enable_environment": {"ENABLE_OVERRIDE": "1"},
			"override_paths": ["/somewhere/else"]
		}
	}`)

	// Enable toggle declared but unset: the layer defaults to disabled and
	// its override paths must not redirect anything.
	a := newTestAggregator(newTestEnumerator([]string{implicitRoot}, nil), nil)
	sum := a.ImplicitLayers(report.NewBuilder("test"))

	if len(sum.OverridePaths) != 0 {
		t.Errorf("OverridePaths = %v, want none from a disabled layer", sum.OverridePaths)
	}
}

func TestImplicitLayers_StateRows(t *testing.T) {
	implicitRoot := t.TempDir()
	writeManifest(t, filepath.Join(implicitRoot, "implicit_layer.d"), "toggled_layer.json", `{
		"file_format_version": "1.1.2",
		"layer": {
			"name": "VK_LAYER_TEST_toggled",
			"api_version": "1.3.0",
			"library_path": "./libt.so",
			"enable_environment": {"ENABLE_TOGGLED": "1"},
			"disable_environment": {"DISABLE_TOGGLED": "1"}
		}
	}`)

	a := newTestAggregator(newTestEnumerator([]string{implicitRoot}, nil),
		map[string]string{"ENABLE_TOGGLED": "1"})
	b := report.NewBuilder("test")
	a.ImplicitLayers(b)

	text := reportText(b)
	if !strings.Contains(text, "ENABLE_TOGGLED") || !strings.Contains(text, "= 1") {
		t.Error("enable toggle row missing or without current value")
	}
	if !strings.Contains(text, "DISABLE_TOGGLED") || !strings.Contains(text, "(unset)") {
		t.Error("disable toggle row missing or without unset marker")
	}
	if !strings.Contains(text, "Enabled") {
		t.Error("state row missing")
	}
}

func TestLayerPass_ConflictingLibraryDeclaration(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "explicit_layer.d"), "conflict_layer.json", `{
		"file_format_version": "1.1.2",
		"layer": {
			"name": "VK_LAYER_TEST_conflict",
			"api_version": "1.3.0",
			"library_path": "./liba.so",
			"component_layers": ["VK_LAYER_TEST_other"]
		}
	}`)

	a := newTestAggregator(newTestEnumerator([]string{root}, nil), nil)
	b := report.NewBuilder("test")
	sum := a.ExplicitLayers(b, nil)

	if sum.Parsed != 1 {
		t.Fatalf("Parsed = %d; a conflicting declaration still parses", sum.Parsed)
	}
	if !strings.Contains(reportText(b), "BOTH DEFINED!") {
		t.Error("conflict marker missing from report")
	}
}

func TestFieldAbsenceIsReportedNotFatal(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "explicit_layer.d"), "sparse_layer.json", `{
		"layer": {}
	}`)

	a := newTestAggregator(newTestEnumerator([]string{root}, nil), nil)
	b := report.NewBuilder("test")
	sum := a.ExplicitLayers(b, nil)

	if sum.Parsed != 1 {
		t.Fatalf("Parsed = %d, want 1; absent fields are findings, not parse failures", sum.Parsed)
	}
	if !strings.Contains(reportText(b), missingMarker) {
		t.Error("missing-field marker absent from report")
	}
}
