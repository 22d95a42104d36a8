// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package workspace

import (
	"path/filepath"
	"sort"
	"strings"
)

// moduleSuffixes are tried, in order, after an import base path.
var moduleSuffixes = []string{
	"",
	".ts",
	".tsx",
	".d.ts",
	"/index.ts",
	"/index.tsx",
}

// loadedImport returns the registered file an import refers to. Files that
// were never added are not loaded here. The caller holds the lock.
func (w *Workspace) loadedImport(fromFile, specifier string) (*SourceFile, bool) {
	for _, candidate := range w.importCandidates(fromFile, specifier) {
		if f, ok := w.files[candidate]; ok {
			return f, true
		}
	}
	return nil, false
}

func (w *Workspace) importCandidates(fromFile, specifier string) []string {
	var bases []string

	switch {
	case strings.HasPrefix(specifier, "./"), strings.HasPrefix(specifier, "../"), specifier == ".", specifier == "..":
		bases = append(bases, filepath.Join(filepath.Dir(fromFile), filepath.FromSlash(specifier)))
	default:
		bases = append(bases, w.mappedBases(specifier)...)
		if w.options.BaseURL != "" {
			bases = append(bases, filepath.Join(w.options.BaseURL, filepath.FromSlash(specifier)))
		}
	}

	candidates := make([]string, 0, len(bases)*len(moduleSuffixes))
	for _, base := range bases {
		for _, suffix := range moduleSuffixes {
			candidates = append(candidates, filepath.Clean(base+filepath.FromSlash(suffix)))
		}
	}
	return candidates
}

// mappedBases applies the "paths" mappings. Exact patterns win over
// wildcard ones, and longer wildcard prefixes win over shorter ones.
func (w *Workspace) mappedBases(specifier string) []string {
	if targets, ok := w.options.Paths[specifier]; ok {
		return targets
	}

	type match struct {
		prefix  string
		targets []string
		rest    string
	}
	var matches []match

	for pattern, targets := range w.options.Paths {
		star := strings.IndexByte(pattern, '*')
		if star < 0 {
			continue
		}
		prefix, suffix := pattern[:star], pattern[star+1:]
		if !strings.HasPrefix(specifier, prefix) || !strings.HasSuffix(specifier, suffix) {
			continue
		}
		if len(specifier) < len(prefix)+len(suffix) {
			continue
		}
		matches = append(matches, match{
			prefix:  prefix,
			targets: targets,
			rest:    specifier[len(prefix) : len(specifier)-len(suffix)],
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return len(matches[i].prefix) > len(matches[j].prefix)
	})

	var bases []string
	for _, m := range matches {
		for _, target := range m.targets {
			bases = append(bases, strings.Replace(target, "*", filepath.FromSlash(m.rest), 1))
		}
	}
	return bases
}
