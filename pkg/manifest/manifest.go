// SPDX-License-Identifier: MPL-2.0

// Package manifest reads and validates Vulkan driver (ICD) and layer
// manifest files.
//
// Manifests are JSON documents. A document that parses but lacks required
// fields is still returned successfully: every record carries per-field
// presence markers so each missing field can be reported individually. Only
// unreadable files and malformed JSON produce errors, and parse errors carry
// the decoder's diagnostic verbatim so it can be surfaced in the report.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// Extension is a single extension entry declared by a driver or layer.
type Extension struct {
	Name        string `json:"name"`
	SpecVersion string `json:"spec_version"`
}

// LibrarySpec describes how a layer manifest declares its implementation:
// a library path, a list of component layers, neither, or (illegally) both.
type LibrarySpec int

const (
	// LibraryMissing means neither library_path nor component_layers is present.
	LibraryMissing LibrarySpec = iota
	// LibraryPath means only library_path is present.
	LibraryPath
	// LibraryComponents means only component_layers is present.
	LibraryComponents
	// LibraryConflict means both library_path and component_layers are present.
	LibraryConflict
)

// String returns a human-readable description of the library spec state.
func (s LibrarySpec) String() string {
	switch s {
	case LibraryPath:
		return "library path"
	case LibraryComponents:
		return "component layers"
	case LibraryConflict:
		return "BOTH DEFINED!"
	default:
		return "MISSING!"
	}
}

// Driver is a parsed driver (ICD) manifest.
//
// HasICDSection is false when the document parsed but the ICD section is
// absent; the manifest is then reported as found-but-invalid rather than
// silently dropped.
type Driver struct {
	// Path is the manifest file location this record was read from.
	Path string

	FileFormatVersion  *string
	HasICDSection      bool
	APIVersion         *string
	LibraryReference   *string
	DeviceExtensions   []Extension
	InstanceExtensions []Extension
}

// Layer is a parsed explicit or implicit layer manifest.
type Layer struct {
	// Path is the manifest file location this record was read from.
	Path string

	FileFormatVersion *string
	HasLayerSection   bool
	Name              *string
	Description       *string
	APIVersion        *string

	Spec             LibrarySpec
	LibraryReference *string
	ComponentLayers  []string

	DeviceExtensions   []Extension
	InstanceExtensions []Extension

	// Implicit-layer only fields.
	EnableToggle  string
	DisableToggle string
	Expiration    *Expiration
	OverridePaths []string
}

// UnreadableError reports a manifest file that could not be opened.
type UnreadableError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *UnreadableError) Error() string {
	return fmt.Sprintf("reading manifest %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *UnreadableError) Unwrap() error { return e.Err }

// ParseError reports a manifest file that is not valid JSON. Detail holds
// the decoder diagnostic verbatim for inclusion in the report.
type ParseError struct {
	Path   string
	Detail string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing manifest %s: %s", e.Path, e.Detail)
}

// LoadDriver reads and parses a driver manifest from path.
func LoadDriver(path string) (*Driver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &UnreadableError{Path: path, Err: err}
	}
	return ParseDriver(path, data)
}

// ParseDriver parses driver manifest bytes. JSONC comments and trailing
// commas are tolerated; the ecosystem's manifests are plain JSON but some
// vendors annotate them.
func ParseDriver(path string, data []byte) (*Driver, error) {
	var doc struct {
		FileFormatVersion *string `json:"file_format_version"`
		ICD               *struct {
			APIVersion         *string     `json:"api_version"`
			LibraryPath        *string     `json:"library_path"`
			DeviceExtensions   []Extension `json:"device_extensions"`
			InstanceExtensions []Extension `json:"instance_extensions"`
		} `json:"ICD"`
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, &ParseError{Path: path, Detail: err.Error()}
	}

	d := &Driver{
		Path:              path,
		FileFormatVersion: doc.FileFormatVersion,
	}
	if doc.ICD != nil {
		d.HasICDSection = true
		d.APIVersion = doc.ICD.APIVersion
		d.LibraryReference = doc.ICD.LibraryPath
		d.DeviceExtensions = doc.ICD.DeviceExtensions
		d.InstanceExtensions = doc.ICD.InstanceExtensions
	}
	return d, nil
}

// LoadLayer reads and parses a layer manifest from path.
func LoadLayer(path string) (*Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &UnreadableError{Path: path, Err: err}
	}
	return ParseLayer(path, data)
}

// ParseLayer parses layer manifest bytes.
func ParseLayer(path string, data []byte) (*Layer, error) {
	var doc struct {
		FileFormatVersion *string `json:"file_format_version"`
		Layer             *struct {
			Name               *string         `json:"name"`
			Description        *string         `json:"description"`
			APIVersion         *string         `json:"api_version"`
			LibraryPath        *string         `json:"library_path"`
			ComponentLayers    json.RawMessage `json:"component_layers"`
			DeviceExtensions   []Extension     `json:"device_extensions"`
			InstanceExtensions []Extension     `json:"instance_extensions"`
			EnableEnvironment  json.RawMessage `json:"enable_environment"`
			DisableEnvironment json.RawMessage `json:"disable_environment"`
			Expiration         *string         `json:"expiration"`
			OverridePaths      []string        `json:"override_paths"`
		} `json:"layer"`
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, &ParseError{Path: path, Detail: err.Error()}
	}

	l := &Layer{
		Path:              path,
		FileFormatVersion: doc.FileFormatVersion,
	}
	if doc.Layer == nil {
		return l, nil
	}
	l.HasLayerSection = true
	l.Name = doc.Layer.Name
	l.Description = doc.Layer.Description
	l.APIVersion = doc.Layer.APIVersion
	l.LibraryReference = doc.Layer.LibraryPath
	l.DeviceExtensions = doc.Layer.DeviceExtensions
	l.InstanceExtensions = doc.Layer.InstanceExtensions
	l.OverridePaths = doc.Layer.OverridePaths
	l.EnableToggle = firstKey(doc.Layer.EnableEnvironment)
	l.DisableToggle = firstKey(doc.Layer.DisableEnvironment)

	hasComponents := len(doc.Layer.ComponentLayers) > 0 && !bytes.Equal(doc.Layer.ComponentLayers, []byte("null"))
	if hasComponents {
		// component_layers must be an array of strings; anything else is
		// reported as a conflict-free presence with no entries.
		_ = json.Unmarshal(doc.Layer.ComponentLayers, &l.ComponentLayers)
	}
	switch {
	case doc.Layer.LibraryPath != nil && hasComponents:
		l.Spec = LibraryConflict
	case doc.Layer.LibraryPath != nil:
		l.Spec = LibraryPath
	case hasComponents:
		l.Spec = LibraryComponents
	default:
		l.Spec = LibraryMissing
	}

	if doc.Layer.Expiration != nil {
		if exp, err := ParseExpiration(*doc.Layer.Expiration); err == nil {
			l.Expiration = &exp
		}
	}
	return l, nil
}

// firstKey extracts the first key of a JSON object in document order. The
// enable/disable environment blocks are single-entry objects by convention;
// matching the loader, only the first entry is honored.
func firstKey(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return ""
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ""
	}
	tok, err = dec.Token()
	if err != nil {
		return ""
	}
	key, _ := tok.(string)
	return key
}
