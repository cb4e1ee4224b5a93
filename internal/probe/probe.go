// SPDX-License-Identifier: MPL-2.0

// Package probe checks whether a resolved driver or layer binary actually
// exists and can be loaded. The load check is a scoped acquisition: open the
// library, immediately release it, and report the loader's own diagnostic on
// failure. A binary can be located but unloadable (wrong architecture,
// missing dependency) and the two conditions are reported distinctly.
package probe

import (
	"os"
	"strings"
)

// Loadable is the tri-state outcome of the dynamic-load check.
type Loadable int

const (
	// LoadUnknown means no load attempt was made (file absent, or the
	// platform probe is unsupported).
	LoadUnknown Loadable = iota
	// LoadOK means the library loaded and unloaded cleanly.
	LoadOK
	// LoadFailed means the loader rejected the library.
	LoadFailed
)

// Result is everything the probe learned about one library reference.
// Probing never fails as an operation; all failure modes are fields.
type Result struct {
	// DeclaredRef is the raw reference string from the manifest.
	DeclaredRef string
	// ResolvedPath is the path computed against the manifest location.
	ResolvedPath string
	// FoundAt is the path that actually exists: the resolved path, or a
	// system-directory fallback. Empty when nothing was found.
	FoundAt string
	// Located reports whether any candidate file exists.
	Located bool
	// Loadable is the dynamic-load outcome for the located file.
	Loadable Loadable
	// LoadError holds the loader diagnostic verbatim when Loadable is
	// LoadFailed.
	LoadError string
	// Version is platform file-version metadata, when available.
	Version string
}

// Loader is the platform dynamic-load capability.
type Loader interface {
	// TryLoad opens and immediately releases the library, returning the
	// loader's error text on failure.
	TryLoad(path string) (ok bool, diag string)
	// FileVersion returns version metadata for the binary, if the
	// platform records any.
	FileVersion(path string) (string, bool)
}

// Prober locates and load-checks library references.
type Prober struct {
	loader     Loader
	systemDirs []string
	exists     func(string) bool
}

// New returns a Prober using the host's dynamic loader and standard system
// library directories.
func New() *Prober {
	return &Prober{
		loader:     platformLoader{},
		systemDirs: systemLibraryDirs(),
		exists:     fileExists,
	}
}

// NewWithLoader returns a Prober with an injected loader and fallback
// directory list, for tests.
func NewWithLoader(loader Loader, systemDirs []string) *Prober {
	return &Prober{loader: loader, systemDirs: systemDirs, exists: fileExists}
}

// Probe checks the library at resolvedPath. When the resolved path does not
// exist, each system library directory is tried with the filename portion of
// the declared reference; manifests commonly name a bare filename expected
// to be on the loader search path already.
func (p *Prober) Probe(resolvedPath, declaredRef string) Result {
	res := Result{
		DeclaredRef:  declaredRef,
		ResolvedPath: resolvedPath,
	}

	if resolvedPath != "" && p.exists(resolvedPath) {
		res.Located = true
		res.FoundAt = resolvedPath
	} else {
		name := filenameOf(declaredRef)
		if name != "" {
			for _, dir := range p.systemDirs {
				candidate := joinDir(dir, name)
				if p.exists(candidate) {
					res.Located = true
					res.FoundAt = candidate
					break
				}
			}
		}
	}

	if !res.Located {
		return res
	}

	if ok, diag := p.loader.TryLoad(res.FoundAt); ok {
		res.Loadable = LoadOK
	} else {
		res.Loadable = LoadFailed
		res.LoadError = diag
	}
	if version, ok := p.loader.FileVersion(res.FoundAt); ok {
		res.Version = version
	}
	return res
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// filenameOf strips any directory portion, accepting either separator since
// manifests mix them freely.
func filenameOf(ref string) string {
	if idx := strings.LastIndexAny(ref, `/\`); idx >= 0 {
		return ref[idx+1:]
	}
	return ref
}

func joinDir(dir, name string) string {
	if dir == "" {
		return name
	}
	if strings.IndexByte(`/\`, dir[len(dir)-1]) >= 0 {
		return dir + name
	}
	if strings.ContainsRune(dir, '\\') && !strings.ContainsRune(dir, '/') {
		return dir + `\` + name
	}
	return dir + "/" + name
}
