// SPDX-License-Identifier: MPL-2.0

// Package settings parses the layer settings override file
// (vk_layer_settings.txt) and locates it using the same conventions the
// loader does.
package settings

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the well-known settings file name.
const FileName = "vk_layer_settings.txt"

// PathEnvVar names the directory override consulted before the well-known
// locations.
const PathEnvVar = "VK_LAYER_SETTINGS_PATH"

// GlobalBucket is the bucket for settings whose key has no layer prefix.
const GlobalBucket = "--None--"

// Entry is a single setting line, order-preserving.
type Entry struct {
	Name  string
	Value string
}

// File is a parsed settings file: entries grouped by owning layer, with
// bucket order following first appearance in the file.
type File struct {
	// Path is where the file was read from; empty for in-memory parses.
	Path string
	// Buckets lists layer names in first-seen order.
	Buckets []string
	// Entries maps a bucket to its settings in file order.
	Entries map[string][]Entry
}

// Load reads and parses the settings file at path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	parsed, err := Parse(f)
	if err != nil {
		return nil, err
	}
	parsed.Path = path
	return parsed, nil
}

// Parse reads the flat settings format:
//
//	# comment
//	<layer_name>.<setting> = <value>
//
// Blank lines and lines starting with '#' are skipped. Lines without '='
// are silently skipped; the file is user-edited free-form text and lenience
// here is deliberate. The key is split on its first '.'; keys without a dot
// land in GlobalBucket.
func Parse(r io.Reader) (*File, error) {
	out := &File{Entries: make(map[string][]Entry)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		eq := strings.Index(line, "=")
		if eq < 0 {
			continue
		}

		key := strings.TrimSpace(line[:eq])
		value := strings.TrimSpace(line[eq+1:])

		bucket := GlobalBucket
		name := key
		if dot := strings.Index(key, "."); dot >= 0 {
			bucket = key[:dot]
			name = key[dot+1:]
		}
		if bucket == "" {
			bucket = GlobalBucket
		}

		if _, seen := out.Entries[bucket]; !seen {
			out.Buckets = append(out.Buckets, bucket)
		}
		out.Entries[bucket] = append(out.Entries[bucket], Entry{Name: name, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CandidatePaths returns the settings file locations to examine, highest
// priority first. When the override env var is set it is the only
// candidate, matching the loader; otherwise the well-known settings.d
// directories are tried in fixed order.
func CandidatePaths(getenv func(string) string, homeDir string) []string {
	if override := getenv(PathEnvVar); override != "" {
		return []string{filepath.Join(override, FileName)}
	}

	paths := []string{
		filepath.Join("/etc/vulkan/settings.d", FileName),
		filepath.Join("/usr/share/vulkan/settings.d", FileName),
		filepath.Join("/usr/local/etc/vulkan/settings.d", FileName),
		filepath.Join("/usr/local/share/vulkan/settings.d", FileName),
	}
	if homeDir != "" {
		paths = append(paths, filepath.Join(homeDir, ".local/share/vulkan/settings.d", FileName))
	}
	return paths
}
