// SPDX-License-Identifier: MPL-2.0

// Package validate runs the SDK's vkcube demo as a smoke test: if a short
// offscreen-friendly run exits cleanly, the installed driver stack can
// create an instance, a device, and a swapchain end to end.
package validate

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// toolName is the demo binary shipped with the SDK.
const toolName = "vkcube"

// runTimeout bounds a single demo run; a wedged driver must not hang the
// whole report.
const runTimeout = 60 * time.Second

// Outcome classifies one validation run. A missing tool is distinct from a
// failing one: absence means "cannot validate", not "broken installation".
type Outcome int

const (
	// NotFound means the demo binary is not installed.
	NotFound Outcome = iota
	// Passed means the demo ran and exited zero.
	Passed
	// Failed means the demo ran and exited nonzero.
	Failed
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Passed:
		return "PASSED"
	case Failed:
		return "FAILED"
	default:
		return "NOT FOUND"
	}
}

// Result is the record of one validation run.
type Result struct {
	// Tool is the resolved binary path, or the bare name when not found.
	Tool string
	// Args are the arguments the demo ran with.
	Args []string
	// Outcome classifies the run.
	Outcome Outcome
	// ExitCode is the demo's exit status when it ran.
	ExitCode int
	// Output is combined stdout and stderr, trimmed.
	Output string
}

// Runner locates and executes the demo. Lookup and execution are injectable
// for tests.
type Runner struct {
	// ExtraDirs are searched for the tool before PATH; SDK installs put the
	// demo in <sdk>/bin without necessarily touching PATH.
	ExtraDirs []string
	// LookPath resolves a bare name on PATH.
	LookPath func(string) (string, error)
	// Execute runs the resolved binary and returns its exit code and
	// combined output.
	Execute func(ctx context.Context, path string, args []string) (int, string, error)
}

// New returns a Runner wired to the host.
func New(extraDirs []string) *Runner {
	return &Runner{
		ExtraDirs: extraDirs,
		LookPath:  exec.LookPath,
		Execute:   executeCommand,
	}
}

// Smoke runs the demo for a fixed number of frames with popups suppressed.
func (r *Runner) Smoke(ctx context.Context) Result {
	return r.run(ctx, []string{"--c", "100", "--suppress_popups"})
}

// WithValidation repeats the smoke run with the validation layer active, so
// API misuse inside the stack itself surfaces.
func (r *Runner) WithValidation(ctx context.Context) Result {
	return r.run(ctx, []string{"--c", "100", "--suppress_popups", "--validate"})
}

func (r *Runner) run(ctx context.Context, args []string) Result {
	path, ok := r.locate()
	if !ok {
		return Result{Tool: toolName, Args: args, Outcome: NotFound}
	}

	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	code, output, err := r.Execute(ctx, path, args)
	res := Result{Tool: path, Args: args, ExitCode: code, Output: output}
	if err != nil && code == 0 {
		// Failed to start at all; fold the launcher error into the output.
		res.Outcome = Failed
		res.Output = strings.TrimSpace(output + "\n" + err.Error())
		return res
	}
	if code == 0 {
		res.Outcome = Passed
	} else {
		res.Outcome = Failed
	}
	return res
}

func (r *Runner) locate() (string, bool) {
	for _, dir := range r.ExtraDirs {
		candidate := filepath.Join(dir, exeName(toolName))
		if _, err := r.LookPath(candidate); err == nil {
			return candidate, true
		}
	}
	if path, err := r.LookPath(toolName); err == nil {
		return path, true
	}
	return "", false
}

func executeCommand(ctx context.Context, path string, args []string) (int, string, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	output := strings.TrimSpace(buf.String())
	if err == nil {
		return 0, output, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), output, nil
	}
	return 0, output, err
}
