// SPDX-License-Identifier: MPL-2.0

package discovery

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	// Per-location failures never abort sibling processing; they become
	// diagnostics and the pass continues.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "manifest_malformed").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the file or registry path associated with this diagnostic
		// (optional).
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}
)

// Diagnostic codes emitted during discovery.
const (
	// CodeSourceUnavailable marks a registry key or directory that does not
	// exist. It means "no candidates at this location" and is never fatal.
	CodeSourceUnavailable = "source_unavailable"
	// CodeManifestUnreadable marks a manifest file that could not be opened.
	CodeManifestUnreadable = "manifest_unreadable"
	// CodeManifestMalformed marks a manifest file that is not valid JSON.
	CodeManifestMalformed = "manifest_malformed"
	// CodeLibraryUnresolved marks a library reference with no existing file
	// behind it.
	CodeLibraryUnresolved = "library_unresolved"
	// CodeLibraryUnloadable marks an existing file the dynamic loader rejected.
	CodeLibraryUnloadable = "library_unloadable"
)

// warnf appends a warning diagnostic.
func warnf(diags []Diagnostic, code, path, message string) []Diagnostic {
	return append(diags, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		Path:     path,
	})
}

// errorf appends an error diagnostic with an underlying cause.
func errorf(diags []Diagnostic, code, path, message string, cause error) []Diagnostic {
	return append(diags, Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  message,
		Path:     path,
		Cause:    cause,
	})
}
