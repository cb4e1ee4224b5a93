// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"os"
	"path/filepath"
	"sort"

	"vkvia-cli/internal/probe"
	"vkvia-cli/internal/report"
)

// RuntimeSummary is the outcome of the loader runtime pass.
type RuntimeSummary struct {
	// Found counts runtime library candidates across all directories.
	Found int
	// Verdict is VerdictRuntimeNotFound when no candidate exists.
	Verdict Verdict
	// Diagnostics carries non-fatal findings.
	Diagnostics []Diagnostic
}

// Runtimes locates the Vulkan loader runtime library itself. Applications
// link against the loader, not against drivers, so a missing runtime makes
// every other finding moot. Symlink chains are reported because distros ship
// the runtime as a soname link pointing at the real file.
func (a *Aggregator) Runtimes(b *report.Builder) RuntimeSummary {
	sum := RuntimeSummary{Verdict: VerdictSuccess}

	b.BeginSection("Vulkan Runtimes")
	for _, dir := range runtimeDirs() {
		entries, err := a.Sources.ReadDir(dir)
		if err != nil {
			sum.Diagnostics = warnf(sum.Diagnostics, CodeSourceUnavailable, dir, "directory not present")
			continue
		}
		names := make([]string, 0, 2)
		for _, entry := range entries {
			if !entry.IsDir() && isRuntimeName(entry.Name()) {
				names = append(names, entry.Name())
			}
		}
		if len(names) == 0 {
			continue
		}
		sort.Strings(names)

		b.BeginTable(dir, 3)
		for _, name := range names {
			sum.Found++
			a.reportRuntime(b, filepath.Join(dir, name), &sum)
		}
	}

	if sum.Found == 0 {
		b.BeginTable("", 3)
		b.AddRow(report.L("No Vulkan runtime library found"))
		sum.Verdict = VerdictRuntimeNotFound
	}
	a.Log.Debug("runtime pass complete", "found", sum.Found, "verdict", sum.Verdict)
	return sum
}

func (a *Aggregator) reportRuntime(b *report.Builder, path string, sum *RuntimeSummary) {
	b.AddRow(report.L("Runtime"), report.L(path))

	// Walk the soname symlink chain to the real file.
	target := path
	for depth := 0; depth < 8; depth++ {
		info, err := os.Lstat(target)
		if err != nil || info.Mode()&os.ModeSymlink == 0 {
			break
		}
		link, err := os.Readlink(target)
		if err != nil {
			break
		}
		if !filepath.IsAbs(link) {
			link = filepath.Join(filepath.Dir(target), link)
		}
		b.AddRow(report.R("Links To"), report.L(link))
		target = link
	}

	res := a.Prober.Probe(target, filepath.Base(target))
	if !res.Located {
		b.AddRow(report.R("Resolved"), report.L(missingMarker))
		sum.Diagnostics = warnf(sum.Diagnostics, CodeLibraryUnresolved, target, "runtime symlink target missing")
		return
	}
	if res.Version != "" {
		b.AddRow(report.R("File Version"), report.L(res.Version))
	}
	switch res.Loadable {
	case probe.LoadOK:
		b.AddRow(report.R("Loadable"), report.L("Yes"))
	case probe.LoadFailed:
		b.AddRow(report.R("Loadable"), report.L("NO!"), report.L(res.LoadError))
		sum.Diagnostics = errorf(sum.Diagnostics, CodeLibraryUnloadable, target, res.LoadError, nil)
	}
}
