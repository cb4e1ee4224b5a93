// SPDX-License-Identifier: MPL-2.0

package run

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"vkvia-cli/internal/clock"
	"vkvia-cli/internal/config"
	"vkvia-cli/internal/discovery"
	"vkvia-cli/internal/hostinfo"
	"vkvia-cli/internal/report"
	"vkvia-cli/internal/settings"
	"vkvia-cli/internal/validate"
)

// reportTitle heads the generated document.
const reportTitle = "Vulkan Installation Analysis"

type (
	// Orchestrator runs the diagnostic passes in their fixed order and
	// accumulates the report and the run-wide verdict. Collaborators are
	// fields so tests can substitute any pass.
	Orchestrator struct {
		Config    *config.Config
		Log       *log.Logger
		Clock     clock.Clock
		Getenv    func(string) string
		HomeDir   string
		Host      *hostinfo.Collector
		Agg       *discovery.Aggregator
		Validator *validate.Runner
	}

	// Summary is everything a caller needs besides the report document:
	// per-pass outcomes and the worst verdict across the run.
	Summary struct {
		Verdict    discovery.Verdict
		Drivers    discovery.DriverSummary
		Runtimes   discovery.RuntimeSummary
		SDKs       discovery.SDKSummary
		Implicit   discovery.LayerSummary
		Explicit   discovery.LayerSummary
		Validation []validate.Result

		// Diagnostics aggregates every pass diagnostic in run order.
		Diagnostics []discovery.Diagnostic
	}
)

// New wires an Orchestrator to the host, applying the configured extra
// search directories to discovery.
func New(cfg *config.Config, logger *log.Logger) *Orchestrator {
	agg := discovery.NewAggregator(logger)
	agg.Sources.ExtraDriverDirs = cfg.Search.ExtraDriverDirs
	agg.Sources.ExtraLayerDirs = cfg.Search.ExtraLayerDirs

	home, _ := os.UserHomeDir()

	return &Orchestrator{
		Config:    cfg,
		Log:       logger,
		Clock:     clock.Real(),
		Getenv:    os.Getenv,
		HomeDir:   home,
		Host:      hostinfo.New(),
		Agg:       agg,
		Validator: validate.New(nil),
	}
}

// Run executes every pass and returns the report document and the summary.
// Passes degrade independently; the only fatal condition is a canceled
// context.
func (o *Orchestrator) Run(ctx context.Context) (*report.Report, *Summary, error) {
	b := report.NewBuilder(reportTitle)
	sum := &Summary{Verdict: discovery.VerdictSuccess}

	o.Host.Collect(b)
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("diagnostic run canceled: %w", err)
	}

	sum.Drivers = o.Agg.Drivers(b)
	sum.Runtimes = o.Agg.Runtimes(b)
	sum.SDKs = o.Agg.SDKs(b)
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("diagnostic run canceled: %w", err)
	}

	// An installed SDK ships explicit layer manifests and the vkcube demo;
	// its directories join the explicit-layer search and the tool lookup.
	for _, root := range sum.SDKs.Roots {
		o.Agg.Sources.ExtraLayerDirs = append(o.Agg.Sources.ExtraLayerDirs,
			filepath.Join(root, "etc", "explicit_layer.d"))
		o.Validator.ExtraDirs = append(o.Validator.ExtraDirs, filepath.Join(root, "bin"))
	}

	// The implicit pass must precede the explicit pass: active implicit
	// layers can redirect where explicit layers are searched for.
	sum.Implicit = o.Agg.ImplicitLayers(b)
	sum.Explicit = o.Agg.ExplicitLayers(b, sum.Implicit.OverridePaths)

	o.reportSettings(b)

	if o.Config.Validation.Enabled {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("diagnostic run canceled: %w", err)
		}
		o.runValidation(ctx, b, sum)
	}

	o.collectVerdict(sum)
	o.reportStatus(b, sum)
	return b.Report(), sum, nil
}

// reportSettings appends the layer settings file section: every candidate
// location, and the parsed contents of each file that exists.
func (o *Orchestrator) reportSettings(b *report.Builder) {
	b.BeginSection("Layer Settings File")
	b.BeginTable("Search Locations", 3)

	for _, path := range settings.CandidatePaths(o.Getenv, o.HomeDir) {
		file, err := settings.Load(path)
		if err != nil {
			b.AddRow(report.L(path), report.L("not present"))
			continue
		}
		b.AddRow(report.L(path), report.L("FOUND"))
		o.reportSettingsFile(b, path, file)
	}
}

func (o *Orchestrator) reportSettingsFile(b *report.Builder, path string, file *settings.File) {
	b.BeginTable("Settings in "+path, 3)
	if len(file.Buckets) == 0 {
		b.AddRow(report.L("(empty)"))
		return
	}
	for _, bucket := range file.Buckets {
		b.AddRow(report.L(bucket))
		for _, entry := range file.Entries[bucket] {
			b.AddRow(report.R(entry.Name), report.L(entry.Value))
		}
	}
}

// runValidation executes the vkcube smoke test, once plain and once with the
// validation layer, and appends both outcomes.
func (o *Orchestrator) runValidation(ctx context.Context, b *report.Builder, sum *Summary) {
	b.BeginSection("Installation Test")

	smoke := o.Validator.Smoke(ctx)
	sum.Validation = append(sum.Validation, smoke)
	o.reportValidation(b, "Smoke Test", smoke)

	if smoke.Outcome == validate.NotFound {
		// No tool, no second run.
		return
	}

	validated := o.Validator.WithValidation(ctx)
	sum.Validation = append(sum.Validation, validated)
	o.reportValidation(b, "Smoke Test With Validation Layer", validated)
}

func (o *Orchestrator) reportValidation(b *report.Builder, title string, res validate.Result) {
	b.BeginTable(title, 3)
	b.AddRow(report.L("Tool"), report.L(res.Tool))
	if res.Outcome == validate.NotFound {
		b.AddRow(report.L("Result"), report.L(res.Outcome.String()), report.L("install vulkan-tools to enable this test"))
		return
	}
	b.AddRow(report.L("Arguments"), report.L(fmt.Sprintf("%v", res.Args)))
	b.AddRow(report.L("Result"), report.L(res.Outcome.String()), report.L(fmt.Sprintf("exit code %d", res.ExitCode)))
	if res.Outcome == validate.Failed && res.Output != "" {
		b.AddRow(report.L("Output"), report.L(res.Output))
	}
}

// collectVerdict folds every pass outcome into the run-wide worst verdict
// and flattens the diagnostics.
func (o *Orchestrator) collectVerdict(sum *Summary) {
	sum.Verdict = discovery.WorstOf(sum.Verdict, sum.Drivers.Verdict)
	sum.Verdict = discovery.WorstOf(sum.Verdict, sum.Runtimes.Verdict)
	sum.Verdict = discovery.WorstOf(sum.Verdict, sum.Implicit.Verdict)
	sum.Verdict = discovery.WorstOf(sum.Verdict, sum.Explicit.Verdict)
	for _, res := range sum.Validation {
		if res.Outcome == validate.Failed {
			sum.Verdict = discovery.WorstOf(sum.Verdict, discovery.VerdictTestFailed)
		}
	}

	sum.Diagnostics = append(sum.Diagnostics, sum.Drivers.Diagnostics...)
	sum.Diagnostics = append(sum.Diagnostics, sum.Runtimes.Diagnostics...)
	sum.Diagnostics = append(sum.Diagnostics, sum.SDKs.Diagnostics...)
	sum.Diagnostics = append(sum.Diagnostics, sum.Implicit.Diagnostics...)
	sum.Diagnostics = append(sum.Diagnostics, sum.Explicit.Diagnostics...)
}

// reportStatus closes the document with the run verdict so a reader sees
// the conclusion without scanning every section.
func (o *Orchestrator) reportStatus(b *report.Builder, sum *Summary) {
	b.BeginSection("Analysis Result")
	b.BeginTable("", 2)
	b.AddRow(report.L("Status"), report.L(sum.Verdict.String()))
	b.AddRow(report.L("SDKs"), report.L(fmt.Sprintf("%d found", len(sum.SDKs.Roots))))
	b.AddRow(report.L("Driver Manifests"), report.L(fmt.Sprintf("%d found, %d parsed, %d loadable",
		sum.Drivers.Found, sum.Drivers.Parsed, sum.Drivers.Loadable)))
	b.AddRow(report.L("Implicit Layers"), report.L(fmt.Sprintf("%d found, %d parsed", sum.Implicit.Found, sum.Implicit.Parsed)))
	b.AddRow(report.L("Explicit Layers"), report.L(fmt.Sprintf("%d found, %d parsed", sum.Explicit.Found, sum.Explicit.Parsed)))
}
