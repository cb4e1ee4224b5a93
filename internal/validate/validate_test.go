// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"context"
	"errors"
	"testing"
)

func scriptedRunner(code int, output string, execErr error) *Runner {
	return &Runner{
		LookPath: func(name string) (string, error) {
			if name == "vkcube" {
				return "/usr/bin/vkcube", nil
			}
			return "", errors.New("not found")
		},
		Execute: func(_ context.Context, _ string, _ []string) (int, string, error) {
			return code, output, execErr
		},
	}
}

func TestSmoke_Passed(t *testing.T) {
	res := scriptedRunner(0, "frames rendered", nil).Smoke(context.Background())

	if res.Outcome != Passed {
		t.Errorf("Outcome = %s, want PASSED", res.Outcome)
	}
	if res.Tool != "/usr/bin/vkcube" {
		t.Errorf("Tool = %s", res.Tool)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d", res.ExitCode)
	}
}

func TestSmoke_Failed(t *testing.T) {
	res := scriptedRunner(1, "vkCreateInstance failed", nil).Smoke(context.Background())

	if res.Outcome != Failed {
		t.Errorf("Outcome = %s, want FAILED", res.Outcome)
	}
	if res.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", res.ExitCode)
	}
	if res.Output != "vkCreateInstance failed" {
		t.Errorf("Output = %q, want demo output verbatim", res.Output)
	}
}

func TestSmoke_ToolNotFound(t *testing.T) {
	r := &Runner{
		LookPath: func(string) (string, error) { return "", errors.New("not found") },
		Execute: func(context.Context, string, []string) (int, string, error) {
			t.Fatal("Execute must not run when the tool is absent")
			return 0, "", nil
		},
	}

	res := r.Smoke(context.Background())
	if res.Outcome != NotFound {
		t.Errorf("Outcome = %s, want NOT FOUND", res.Outcome)
	}
}

func TestSmoke_LaunchFailure(t *testing.T) {
	res := scriptedRunner(0, "", errors.New("permission denied")).Smoke(context.Background())

	if res.Outcome != Failed {
		t.Errorf("Outcome = %s, want FAILED when the demo cannot start", res.Outcome)
	}
	if res.Output == "" {
		t.Error("launcher error should be captured in Output")
	}
}

func TestWithValidation_AddsValidateFlag(t *testing.T) {
	var gotArgs []string
	r := &Runner{
		LookPath: func(string) (string, error) { return "/usr/bin/vkcube", nil },
		Execute: func(_ context.Context, _ string, args []string) (int, string, error) {
			gotArgs = args
			return 0, "", nil
		},
	}

	r.WithValidation(context.Background())
	found := false
	for _, a := range gotArgs {
		if a == "--validate" {
			found = true
		}
	}
	if !found {
		t.Errorf("args = %v, want --validate present", gotArgs)
	}
}
