// SPDX-License-Identifier: MPL-2.0

// Package vkpath resolves library references found in Vulkan manifest files.
//
// Manifest files may reference their driver or layer binary with an absolute
// path, or with a path relative to the directory containing the manifest
// itself. Relative references may begin with any number of parent-directory
// segments. Manifests are written with forward or back slashes regardless of
// the host platform, so resolution here is deliberately separator-agnostic
// and must produce the same result on every OS. path/filepath is not used on
// purpose: its separator and ".." handling differ per platform.
package vkpath

import (
	"fmt"
	"strings"
)

const separators = `/\`

// IsAbs reports whether a library reference is absolute: it begins with a
// path separator, or carries a drive-letter-colon prefix.
func IsAbs(ref string) bool {
	if ref == "" {
		return false
	}
	if ref[0] == '/' || ref[0] == '\\' {
		return true
	}
	return len(ref) >= 2 && ref[1] == ':'
}

// Resolve computes the location of the library referenced by a manifest.
// Absolute references are returned unchanged. Relative references are
// resolved against the directory containing manifestPath, consuming leading
// "../" segments by ascending one directory level each (ascending past the
// root is a no-op) and discarding leading "./" segments.
func Resolve(manifestPath, libraryRef string) (string, error) {
	if manifestPath == "" {
		return "", fmt.Errorf("resolve library reference: empty manifest path")
	}
	if libraryRef == "" {
		return "", fmt.Errorf("resolve library reference: empty reference in %s", manifestPath)
	}

	if IsAbs(libraryRef) {
		return libraryRef, nil
	}

	base := dirOf(manifestPath)
	ref := libraryRef

	// Consume the leading run of parent-directory segments.
	for strings.HasPrefix(ref, "../") || strings.HasPrefix(ref, `..\`) {
		ref = ref[3:]
		base = parentOf(base)
	}

	// Discard leading current-directory segments.
	for strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, `.\`) {
		ref = ref[2:]
	}

	sep := preferredSeparator(manifestPath)
	if base == "" {
		return ref, nil
	}
	if strings.IndexByte(separators, base[len(base)-1]) >= 0 {
		return base + ref, nil
	}
	return base + string(sep) + ref, nil
}

// dirOf returns the directory portion of a manifest path, without a trailing
// separator unless the directory is a bare root.
func dirOf(path string) string {
	idx := strings.LastIndexAny(path, separators)
	if idx < 0 {
		return ""
	}
	if idx == 0 {
		return path[:1]
	}
	return path[:idx]
}

// parentOf ascends one directory level. Ascending past the root (or an
// empty base) is a no-op rather than an underflow.
func parentOf(base string) string {
	if base == "" {
		return ""
	}
	idx := strings.LastIndexAny(base, separators)
	if idx < 0 {
		return base
	}
	if idx == 0 {
		return base[:1]
	}
	return base[:idx]
}

// preferredSeparator picks the separator already in use by the manifest
// path so joined results stay stylistically consistent with their source.
func preferredSeparator(path string) byte {
	if strings.ContainsRune(path, '\\') && !strings.ContainsRune(path, '/') {
		return '\\'
	}
	return '/'
}
