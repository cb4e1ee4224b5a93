// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"vkvia-cli/internal/clock"
	"vkvia-cli/internal/probe"
	"vkvia-cli/internal/report"
	"vkvia-cli/pkg/manifest"
	"vkvia-cli/pkg/vkpath"
)

// missingMarker flags a field a manifest was expected to carry but did not.
// Field absence is a finding, never an abort: the rest of the manifest is
// still reported.
const missingMarker = "MISSING!"

// Aggregator runs the discovery passes for one category at a time: enumerate
// locations, parse manifests, resolve and probe libraries, and append the
// findings to a report.
type Aggregator struct {
	Sources *Enumerator
	Prober  *probe.Prober
	Clock   clock.Clock
	Getenv  func(string) string
	Log     *log.Logger
}

// NewAggregator wires an Aggregator to the host.
func NewAggregator(logger *log.Logger) *Aggregator {
	return &Aggregator{
		Sources: NewEnumerator(),
		Prober:  probe.New(),
		Clock:   clock.Real(),
		Getenv:  os.Getenv,
		Log:     logger,
	}
}

// DriverSummary is the outcome of the driver pass.
type DriverSummary struct {
	// Found counts manifest candidates enumerated across all tiers.
	Found int
	// Parsed counts manifests that parsed as JSON.
	Parsed int
	// Loadable counts drivers whose library was located and load-checked
	// successfully.
	Loadable int
	// Verdict is the category outcome.
	Verdict Verdict
	// Diagnostics carries every non-fatal finding from the pass.
	Diagnostics []Diagnostic
}

// LayerSummary is the outcome of an implicit or explicit layer pass.
type LayerSummary struct {
	// Found counts manifest candidates enumerated across all tiers.
	Found int
	// Parsed counts manifests that parsed as JSON.
	Parsed int
	// OverridePaths accumulates override_paths from active implicit layers,
	// in encounter order; the explicit pass scans them first.
	OverridePaths []string
	// Verdict is the category outcome.
	Verdict Verdict
	// Diagnostics carries every non-fatal finding from the pass.
	Diagnostics []Diagnostic
}

// Drivers runs the driver discovery pass and appends its section to b.
//
// The verdict distinguishes three failure shapes: nothing found anywhere,
// manifests found but none parseable, and manifests parsed but no library
// located and loadable. Per-manifest failures never stop the pass.
func (a *Aggregator) Drivers(b *report.Builder) DriverSummary {
	locs, diags := a.Sources.Drivers()
	sum := DriverSummary{Found: len(locs), Diagnostics: diags}

	b.BeginSection("Vulkan Drivers")
	for _, group := range groupByContainer(locs) {
		b.BeginTable(containerTitle(group), 3)
		for _, loc := range group.locations {
			drv, err := manifest.LoadDriver(loc.Path)
			if err != nil {
				sum.Diagnostics = append(sum.Diagnostics, a.reportManifestError(b, loc, err)...)
				continue
			}
			sum.Parsed++
			if a.reportDriver(b, loc, drv, &sum) {
				sum.Loadable++
			}
		}
		if len(group.locations) == 0 {
			b.AddRow(report.L("(none found)"))
		}
	}
	if len(locs) == 0 {
		b.BeginTable("", 3)
		b.AddRow(report.L("No driver manifests found in any search location"))
	}

	sum.Verdict = driverVerdict(&sum)
	a.Log.Debug("driver pass complete",
		"found", sum.Found, "parsed", sum.Parsed, "loadable", sum.Loadable,
		"verdict", sum.Verdict)
	return sum
}

func driverVerdict(sum *DriverSummary) Verdict {
	switch {
	case sum.Parsed == 0 && sum.Found > 0:
		return VerdictDriverJSONParseError
	case sum.Parsed == 0:
		return VerdictMissingDriverJSON
	case sum.Loadable == 0:
		return VerdictMissingDriverLib
	default:
		return VerdictSuccess
	}
}

// reportDriver appends the rows for one parsed driver manifest and returns
// whether its library was located and loadable.
func (a *Aggregator) reportDriver(b *report.Builder, loc Location, drv *manifest.Driver, sum *DriverSummary) bool {
	b.AddRow(report.L("Driver Manifest"), report.L(loc.Path), report.L(enabledNote(loc)))
	b.AddRow(report.R("File Format Version"), report.L(textOr(drv.FileFormatVersion)))

	if !drv.HasICDSection {
		b.AddRow(report.R("ICD Section"), report.L(missingMarker))
		sum.Diagnostics = warnf(sum.Diagnostics, CodeManifestMalformed, loc.Path,
			"driver manifest has no ICD section")
		return false
	}
	b.AddRow(report.R("API Version"), report.L(textOr(drv.APIVersion)))
	b.AddRow(report.R("Library Path"), report.L(textOr(drv.LibraryReference)))

	loadable := false
	if drv.LibraryReference != nil && *drv.LibraryReference != "" {
		loadable = a.reportLibrary(b, loc.Path, *drv.LibraryReference, &sum.Diagnostics)
	} else {
		sum.Diagnostics = warnf(sum.Diagnostics, CodeLibraryUnresolved, loc.Path,
			"driver manifest declares no library path")
	}

	reportExtensions(b, "Instance Extensions", drv.InstanceExtensions)
	reportExtensions(b, "Device Extensions", drv.DeviceExtensions)
	return loadable
}

// ImplicitLayers runs the implicit layer pass: every manifest is parsed,
// reported, and evaluated for enablement; override paths from active layers
// are collected for the explicit pass.
func (a *Aggregator) ImplicitLayers(b *report.Builder) LayerSummary {
	locs, diags := a.Sources.ImplicitLayers()
	sum := LayerSummary{Found: len(locs), Diagnostics: diags, Verdict: VerdictSuccess}

	b.BeginSection("Vulkan Implicit Layers")
	a.layerPass(b, locs, &sum, true)
	return sum
}

// ExplicitLayers runs the explicit layer pass. Override paths gathered from
// the implicit pass are handed to enumeration so redirected directories are
// scanned ahead of the standard tiers.
func (a *Aggregator) ExplicitLayers(b *report.Builder, overridePaths []string) LayerSummary {
	locs, diags := a.Sources.ExplicitLayers(overridePaths)
	sum := LayerSummary{Found: len(locs), Diagnostics: diags, Verdict: VerdictSuccess}

	b.BeginSection("Vulkan Explicit Layers")
	a.layerPass(b, locs, &sum, false)
	return sum
}

func (a *Aggregator) layerPass(b *report.Builder, locs []Location, sum *LayerSummary, implicit bool) {
	for _, group := range groupByContainer(locs) {
		b.BeginTable(containerTitle(group), 3)
		for _, loc := range group.locations {
			layer, err := manifest.LoadLayer(loc.Path)
			if err != nil {
				sum.Diagnostics = append(sum.Diagnostics, a.reportManifestError(b, loc, err)...)
				sum.Verdict = WorstOf(sum.Verdict, VerdictLayerJSONParseError)
				continue
			}
			sum.Parsed++
			a.reportLayer(b, loc, layer, sum, implicit)
		}
		if len(group.locations) == 0 {
			b.AddRow(report.L("(none found)"))
		}
	}
	if len(locs) == 0 {
		b.BeginTable("", 3)
		b.AddRow(report.L("No layer manifests found in any search location"))
	}
	a.Log.Debug("layer pass complete", "implicit", implicit,
		"found", sum.Found, "parsed", sum.Parsed, "verdict", sum.Verdict)
}

// reportLayer appends the rows for one parsed layer manifest.
func (a *Aggregator) reportLayer(b *report.Builder, loc Location, layer *manifest.Layer, sum *LayerSummary, implicit bool) {
	b.AddRow(report.L("Layer Manifest"), report.L(loc.Path), report.L(enabledNote(loc)))
	b.AddRow(report.R("Name"), report.L(textOr(layer.Name)))
	b.AddRow(report.R("Description"), report.L(textOr(layer.Description)))
	b.AddRow(report.R("File Format Version"), report.L(textOr(layer.FileFormatVersion)))
	b.AddRow(report.R("API Version"), report.L(textOr(layer.APIVersion)))

	switch layer.Spec {
	case manifest.LibraryPath:
		b.AddRow(report.R("Library Path"), report.L(textOr(layer.LibraryReference)))
		a.reportLibrary(b, loc.Path, *layer.LibraryReference, &sum.Diagnostics)
	case manifest.LibraryComponents:
		b.AddRow(report.R("Component Layers"), report.L(fmt.Sprintf("%d", len(layer.ComponentLayers))))
		for i, comp := range layer.ComponentLayers {
			b.AddRow(report.R(fmt.Sprintf("[%d]", i)), report.L(comp))
		}
	default:
		// LibraryMissing and LibraryConflict render their state name.
		b.AddRow(report.R("Library"), report.L(layer.Spec.String()))
		sum.Diagnostics = warnf(sum.Diagnostics, CodeManifestMalformed, loc.Path,
			"layer manifest library declaration: "+layer.Spec.String())
	}

	if !implicit {
		return
	}

	state := EvaluateEnablement(layer, a.Getenv, a.Clock.Now())
	if layer.EnableToggle != "" {
		b.AddRow(report.R("Enable Env Var"), report.L(layer.EnableToggle),
			report.L(envValueNote(a.Getenv(layer.EnableToggle))))
	}
	if layer.DisableToggle != "" {
		b.AddRow(report.R("Disable Env Var"), report.L(layer.DisableToggle),
			report.L(envValueNote(a.Getenv(layer.DisableToggle))))
	}
	if layer.Expiration != nil {
		b.AddRow(report.R("Expiration"), report.L(layer.Expiration.String()))
	}
	b.AddRow(report.R("State"), report.L(state.String()))

	// Override paths redirect explicit-layer discovery, but only while the
	// declaring layer is actually active.
	if state == Enabled && len(layer.OverridePaths) > 0 {
		b.AddRow(report.R("Override Paths"), report.L(fmt.Sprintf("%d", len(layer.OverridePaths))))
		for i, p := range layer.OverridePaths {
			b.AddRow(report.R(fmt.Sprintf("[%d]", i)), report.L(p))
		}
		sum.OverridePaths = append(sum.OverridePaths, layer.OverridePaths...)
	}
}

// reportLibrary resolves a library reference against its manifest, probes
// it, and appends the outcome rows. Returns whether the library was located
// and loadable.
func (a *Aggregator) reportLibrary(b *report.Builder, manifestPath, ref string, diags *[]Diagnostic) bool {
	resolved, err := vkpath.Resolve(manifestPath, ref)
	if err != nil {
		b.AddRow(report.R("Resolved Path"), report.L(missingMarker), report.L(err.Error()))
		*diags = errorf(*diags, CodeLibraryUnresolved, manifestPath, "library path could not be resolved", err)
		return false
	}

	res := a.Prober.Probe(resolved, ref)
	if !res.Located {
		b.AddRow(report.R("Resolved Path"), report.L(resolved), report.L(missingMarker))
		*diags = warnf(*diags, CodeLibraryUnresolved, resolved, "library file not found")
		return false
	}

	b.AddRow(report.R("Resolved Path"), report.L(res.FoundAt), report.L("FOUND"))
	if res.Version != "" {
		b.AddRow(report.R("File Version"), report.L(res.Version))
	}
	switch res.Loadable {
	case probe.LoadOK:
		b.AddRow(report.R("Loadable"), report.L("Yes"))
		return true
	case probe.LoadFailed:
		b.AddRow(report.R("Loadable"), report.L("NO!"), report.L(res.LoadError))
		*diags = errorf(*diags, CodeLibraryUnloadable, res.FoundAt, res.LoadError, nil)
	}
	return false
}

// reportManifestError appends the row for an unreadable or malformed
// manifest and returns the diagnostics to carry forward. Parse detail is
// reported verbatim.
func (a *Aggregator) reportManifestError(b *report.Builder, loc Location, err error) []Diagnostic {
	b.AddRow(report.L("Manifest"), report.L(loc.Path), report.L("ERROR!"))

	var parseErr *manifest.ParseError
	var readErr *manifest.UnreadableError
	switch {
	case errors.As(err, &parseErr):
		b.AddRow(report.R("Parse Error"), report.L(parseErr.Detail))
		return errorf(nil, CodeManifestMalformed, loc.Path, parseErr.Detail, err)
	case errors.As(err, &readErr):
		b.AddRow(report.R("Read Error"), report.L(readErr.Err.Error()))
		return errorf(nil, CodeManifestUnreadable, loc.Path, readErr.Err.Error(), err)
	default:
		b.AddRow(report.R("Error"), report.L(err.Error()))
		return errorf(nil, CodeManifestUnreadable, loc.Path, err.Error(), err)
	}
}

func reportExtensions(b *report.Builder, label string, exts []manifest.Extension) {
	if len(exts) == 0 {
		return
	}
	b.AddRow(report.R(label), report.L(fmt.Sprintf("%d", len(exts))))
	for i, ext := range exts {
		b.AddRow(report.R(fmt.Sprintf("[%d]", i)), report.L(ext.Name), report.L(ext.SpecVersion))
	}
}

// containerGroup keeps enumeration order while grouping rows per container.
type containerGroup struct {
	origin    Origin
	container string
	locations []Location
}

func groupByContainer(locs []Location) []containerGroup {
	var groups []containerGroup
	index := map[string]int{}
	for _, loc := range locs {
		key := string(loc.Origin) + "\x00" + loc.Container
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, containerGroup{origin: loc.Origin, container: loc.Container})
		}
		groups[i].locations = append(groups[i].locations, loc)
	}
	return groups
}

func containerTitle(g containerGroup) string {
	return fmt.Sprintf("%s (%s)", g.container, g.origin)
}

func enabledNote(loc Location) string {
	if !loc.DefaultEnabled {
		return "disabled in registry"
	}
	return ""
}

func envValueNote(value string) string {
	if value == "" {
		return "(unset)"
	}
	return "= " + value
}

func textOr(p *string) string {
	if p == nil || *p == "" {
		return missingMarker
	}
	return *p
}
