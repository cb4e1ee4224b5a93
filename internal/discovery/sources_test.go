// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"vkvia-cli/internal/registry"
)

func newTestEnumerator(roots []string, env map[string]string) *Enumerator {
	return &Enumerator{
		Store:          registry.Empty{},
		Getenv:         envFrom(env),
		ReadDir:        os.ReadDir,
		WellKnownRoots: roots,
	}
}

func mkManifests(t *testing.T, dir string, names ...string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func paths(locs []Location) []string {
	out := make([]string, len(locs))
	for i, loc := range locs {
		out[i] = loc.Path
	}
	return out
}

func TestDrivers_UnionOfAllTiers(t *testing.T) {
	root := t.TempDir()
	wellKnown := filepath.Join(root, "icd.d")
	mkManifests(t, wellKnown, "b_vendor.json", "a_vendor.json", "readme.txt")

	envDir := filepath.Join(t.TempDir(), "extra")
	mkManifests(t, envDir, "c_vendor.json")

	exactFile := "/opt/vendor/custom_icd.json"

	e := newTestEnumerator([]string{root}, map[string]string{
		EnvDriverDirs:  envDir,
		EnvDriverFiles: exactFile,
	})

	locs, _ := e.Drivers()

	// Every tier contributes; an environment override never suppresses the
	// well-known scan.
	expected := []string{
		filepath.Join(wellKnown, "a_vendor.json"),
		filepath.Join(wellKnown, "b_vendor.json"),
		filepath.Join(envDir, "c_vendor.json"),
		exactFile,
	}
	got := paths(locs)
	if len(got) != len(expected) {
		t.Fatalf("got %d locations %v, want %d", len(got), got, len(expected))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("location[%d] = %s, want %s", i, got[i], expected[i])
		}
	}

	if locs[0].Origin != OriginWellKnownDir {
		t.Errorf("origin[0] = %s, want %s", locs[0].Origin, OriginWellKnownDir)
	}
	if locs[2].Origin != OriginEnvDirs {
		t.Errorf("origin[2] = %s, want %s", locs[2].Origin, OriginEnvDirs)
	}
	if locs[3].Origin != OriginEnvFiles || locs[3].Container != EnvDriverFiles {
		t.Errorf("env file tier = %s/%s", locs[3].Origin, locs[3].Container)
	}
}

func TestDrivers_ExactFilesNotScanned(t *testing.T) {
	// VK_ICD_FILENAMES entries are taken verbatim even when the file does
	// not exist; parse failure is diagnosed later.
	e := newTestEnumerator(nil, map[string]string{
		EnvDriverFiles: "/nonexistent/one.json:/nonexistent/two.json",
	})
	locs, _ := e.Drivers()
	if len(locs) != 2 {
		t.Fatalf("got %d locations, want 2", len(locs))
	}
	if locs[0].Path != "/nonexistent/one.json" || locs[1].Path != "/nonexistent/two.json" {
		t.Errorf("paths = %v", paths(locs))
	}
}

func TestDrivers_MissingDirIsDiagnosticNotError(t *testing.T) {
	e := newTestEnumerator([]string{"/nonexistent-root"}, nil)
	locs, diags := e.Drivers()

	if len(locs) != 0 {
		t.Errorf("got %d locations, want 0", len(locs))
	}
	if len(diags) == 0 {
		t.Fatal("missing directory should produce a diagnostic")
	}
	if diags[0].Code != CodeSourceUnavailable || diags[0].Severity != SeverityWarning {
		t.Errorf("diagnostic = %+v", diags[0])
	}
}

func TestExplicitLayers_OverridePathsComeFirst(t *testing.T) {
	root := t.TempDir()
	wellKnown := filepath.Join(root, "explicit_layer.d")
	mkManifests(t, wellKnown, "w_layer.json")

	envDir := filepath.Join(t.TempDir(), "env_layers")
	mkManifests(t, envDir, "e_layer.json")

	overrideDir := filepath.Join(t.TempDir(), "override")
	mkManifests(t, overrideDir, "o_layer.json")

	e := newTestEnumerator([]string{root}, map[string]string{
		EnvLayerDirs: envDir,
	})

	locs, _ := e.ExplicitLayers([]string{overrideDir})

	expected := []string{
		filepath.Join(overrideDir, "o_layer.json"),
		filepath.Join(envDir, "e_layer.json"),
		filepath.Join(wellKnown, "w_layer.json"),
	}
	got := paths(locs)
	if len(got) != len(expected) {
		t.Fatalf("got %v, want %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("location[%d] = %s, want %s", i, got[i], expected[i])
		}
	}
	if locs[0].Origin != OriginOverridePath {
		t.Errorf("origin[0] = %s, want %s", locs[0].Origin, OriginOverridePath)
	}
}

func TestImplicitLayers_IgnoreExplicitEnvTier(t *testing.T) {
	root := t.TempDir()
	mkManifests(t, filepath.Join(root, "implicit_layer.d"), "i_layer.json")

	envDir := filepath.Join(t.TempDir(), "env_layers")
	mkManifests(t, envDir, "should_not_appear.json")

	e := newTestEnumerator([]string{root}, map[string]string{
		EnvLayerDirs: envDir,
	})

	locs, _ := e.ImplicitLayers()
	if len(locs) != 1 {
		t.Fatalf("got %v, want only the implicit_layer.d manifest", paths(locs))
	}
	if filepath.Base(locs[0].Path) != "i_layer.json" {
		t.Errorf("path = %s", locs[0].Path)
	}
}

func TestCategoryDirs_ExtraDirsAppended(t *testing.T) {
	extra := t.TempDir()
	mkManifests(t, extra, "x_vendor.json")

	e := newTestEnumerator(nil, nil)
	e.ExtraDriverDirs = []string{extra}

	locs, _ := e.Drivers()
	if len(locs) != 1 || filepath.Base(locs[0].Path) != "x_vendor.json" {
		t.Errorf("locations = %v", paths(locs))
	}
}

func TestEnvPathList(t *testing.T) {
	e := newTestEnumerator(nil, map[string]string{
		"LIST":  "/a:/b::/c",
		"EMPTY": "",
	})
	got := e.envPathList("LIST")
	expected := []string{"/a", "/b", "/c"}
	if len(got) != len(expected) {
		t.Fatalf("got %v", got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("entry[%d] = %s, want %s", i, got[i], expected[i])
		}
	}
	if list := e.envPathList("EMPTY"); list != nil {
		t.Errorf("empty variable should yield nil, got %v", list)
	}
}
