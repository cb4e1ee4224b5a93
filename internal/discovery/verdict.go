// SPDX-License-Identifier: MPL-2.0

package discovery

// Verdict is the per-category outcome of a diagnostic pass. Values are
// ordered by increasing severity so the run-wide verdict is a simple max.
type Verdict int

const (
	// VerdictSuccess means the category looks healthy.
	VerdictSuccess Verdict = iota
	// VerdictTestFailed means a validation run executed but failed.
	VerdictTestFailed
	// VerdictRuntimeNotFound means no loader runtime library was located.
	VerdictRuntimeNotFound
	// VerdictLayerJSONParseError means a layer manifest was unreadable or
	// malformed.
	VerdictLayerJSONParseError
	// VerdictMissingDriverLib means driver manifests parsed but none of
	// their libraries could be located and loaded.
	VerdictMissingDriverLib
	// VerdictDriverJSONParseError means driver manifests were found but
	// every one was unreadable or malformed.
	VerdictDriverJSONParseError
	// VerdictMissingDriverJSON means no driver manifest was found anywhere.
	VerdictMissingDriverJSON
)

// String implements fmt.Stringer.
func (v Verdict) String() string {
	switch v {
	case VerdictSuccess:
		return "SUCCESS"
	case VerdictTestFailed:
		return "TEST_FAILED"
	case VerdictRuntimeNotFound:
		return "CANT_FIND_RUNTIME"
	case VerdictLayerJSONParseError:
		return "LAYER_JSON_PARSING_ERROR"
	case VerdictMissingDriverLib:
		return "MISSING_DRIVER_LIB"
	case VerdictDriverJSONParseError:
		return "DRIVER_JSON_PARSING_ERROR"
	case VerdictMissingDriverJSON:
		return "MISSING_DRIVER_JSON"
	default:
		return "UNKNOWN_ERROR"
	}
}

// ExitCode maps a verdict to the process exit code.
func (v Verdict) ExitCode() int { return int(v) }

// WorstOf returns the more severe of two verdicts.
func WorstOf(a, b Verdict) Verdict {
	if b > a {
		return b
	}
	return a
}
