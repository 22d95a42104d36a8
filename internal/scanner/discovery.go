// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package scanner

import (
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/bmatcuk/doublestar/v4"
)

// PluginEntryPattern matches plugin entry files one level below a plugins
// root.
const PluginEntryPattern = "*/index.{ts,tsx}"

// DiscoverPluginDirs lists the plugin directory slugs under root, in glob
// order without duplicates.
// A missing root has no plugins.
func DiscoverPluginDirs(root string) ([]string, error) {
	if _, err := os.Stat(root); errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}

	matches, err := doublestar.Glob(os.DirFS(root), PluginEntryPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to discover plugins in %s: %w", root, err)
	}

	seen := make(map[string]bool, len(matches))
	dirs := make([]string, 0, len(matches))
	for _, m := range matches {
		dir := path.Dir(m)
		if dir == "." || seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}

	return dirs, nil
}
