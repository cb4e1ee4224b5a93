// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"strconv"
	"strings"
	"time"

	"vkvia-cli/pkg/manifest"
)

// EnabledState is the effective activation state of an implicit layer.
type EnabledState int

const (
	// Enabled means the loader would activate the layer.
	Enabled EnabledState = iota
	// Disabled means an environment toggle keeps the layer inactive.
	Disabled
	// Expired means the layer would be enabled but its expiration timestamp
	// has passed.
	Expired
)

// String implements fmt.Stringer.
func (s EnabledState) String() string {
	switch s {
	case Enabled:
		return "Enabled"
	case Disabled:
		return "Disabled"
	case Expired:
		return "Expired"
	default:
		return "Unknown"
	}
}

// EvaluateEnablement computes the activation state of an implicit layer from
// its manifest, the environment, and the current time. It is a pure function
// of its inputs; callers inject getenv and the clock reading.
//
// Rules, in order:
//   - A layer with no enable toggle defaults to enabled; declaring one flips
//     the default to disabled until the variable is set to a nonzero integer.
//   - The disable toggle is evaluated after the enable toggle and wins: a
//     positive integer value disables the layer regardless of the enable
//     result.
//   - Expiration only downgrades an enabled layer. A disabled layer stays
//     disabled; its expiry is irrelevant to the loader.
func EvaluateEnablement(layer *manifest.Layer, getenv func(string) string, now time.Time) EnabledState {
	enabled := true
	if layer.EnableToggle != "" {
		enabled = lenientAtoi(getenv(layer.EnableToggle)) != 0
	}
	if layer.DisableToggle != "" && lenientAtoi(getenv(layer.DisableToggle)) > 0 {
		enabled = false
	}
	if !enabled {
		return Disabled
	}
	if layer.Expiration != nil && layer.Expiration.ExpiredAt(now) {
		return Expired
	}
	return Enabled
}

// lenientAtoi parses the leading integer of s, returning 0 for anything that
// does not start with one. Toggle variables are conventionally "0" or "1" but
// arbitrary text must not crash or enable anything.
func lenientAtoi(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
