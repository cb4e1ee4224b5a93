// SPDX-License-Identifier: MPL-2.0

package run

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vkvia-cli/internal/issue"
	"vkvia-cli/internal/report"
)

// baseName is the report filename stem.
const baseName = "vkvia"

// ReportFilename returns the report file name. Unique mode embeds the
// timestamp so repeated runs never clobber an earlier report.
func ReportFilename(unique bool, now time.Time, ext string) string {
	if unique {
		return fmt.Sprintf("%s_%04d_%02d_%02d_%02d_%02d.%s",
			baseName, now.Year(), int(now.Month()), now.Day(), now.Hour(), now.Minute(), ext)
	}
	return baseName + "." + ext
}

// WriteReport renders rep to the configured output location and returns the
// path written. With no configured path the file lands in the current
// directory; if that is not writable the report falls back to the user's
// home directory rather than being lost.
func (o *Orchestrator) WriteReport(rep *report.Report, renderer report.Renderer, ext string) (string, error) {
	name := ReportFilename(o.Config.Output.Unique, o.Clock.Now(), ext)

	target := string(o.Config.Output.Path)
	explicit := target != ""
	switch {
	case !explicit:
		target = name
	case isDir(target):
		target = filepath.Join(target, name)
	}

	path, err := o.renderTo(rep, renderer, target)
	if err != nil && !explicit && o.HomeDir != "" {
		fallback := filepath.Join(o.HomeDir, name)
		o.Log.Warn("falling back to home directory for report output",
			"target", target, "fallback", fallback, "cause", err)
		path, err = o.renderTo(rep, renderer, fallback)
	}
	if err != nil {
		return "", issue.NewErrorContext().
			WithOperation("write report").
			WithResource(target).
			WithSuggestion("Check the output directory exists and is writable").
			WithSuggestion("Pick a different location with --output-path").
			Wrap(err).
			BuildError()
	}
	return path, nil
}

func (o *Orchestrator) renderTo(rep *report.Report, renderer report.Renderer, path string) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := renderer.Render(rep, f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
