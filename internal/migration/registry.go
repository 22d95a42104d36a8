// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package migration

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/api2spec/plugopts/pkg/types"
)

// RegistryFileName is the deprecated plugin registry written next to the
// generated options.
const RegistryFileName = "deprecated.nix"

// registryHeader opens every generated registry.
const registryHeader = "# This file is auto-generated by scripts/generate-plugin-options\n" +
	"# DO NOT EDIT this file directly; instead update the generator\n"

var (
	attrsetPattern = regexp.MustCompile(`\{\s*([^}]*)\s*\}`)
	entryPattern   = regexp.MustCompile(`(\w+)\s*=\s*(null|"[^"]*");?`)
)

// ErrMalformedRegistry is returned for registry content without an
// attribute set.
var ErrMalformedRegistry = errors.New("malformed deprecated registry")

// ParseRegistry reads a `{ old = "new"; gone = null; }` attribute set.
// Entries that do not match the simple form are ignored.
func ParseRegistry(content []byte) (types.Migrations, error) {
	m := attrsetPattern.FindSubmatch(content)
	if m == nil {
		if len(bytes.TrimSpace(stripComments(content))) == 0 {
			return types.Migrations{}, nil
		}
		return types.Migrations{}, ErrMalformedRegistry
	}

	migrations := make(types.Migrations)
	for _, entry := range strings.Split(string(m[1]), ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		match := entryPattern.FindStringSubmatch(entry)
		if match == nil {
			continue
		}
		if match[2] == "null" {
			migrations[match[1]] = nil
		} else {
			migrations[match[1]] = types.Target(strings.ReplaceAll(match[2], `"`, ""))
		}
	}

	return migrations, nil
}

// RenderRegistry renders migrations as a registry document, sorted by old
// plugin name.
func RenderRegistry(migrations types.Migrations) []byte {
	keys := make([]string, 0, len(migrations))
	for k := range migrations {
		keys = append(keys, k)
	}
	collate.New(language.Und).SortStrings(keys)

	var buf bytes.Buffer
	buf.WriteString(registryHeader)
	buf.WriteString("\n{\n")
	for _, k := range keys {
		if target := migrations[k]; target == nil {
			fmt.Fprintf(&buf, "  %s = null;\n", k)
		} else {
			fmt.Fprintf(&buf, "  %s = \"%s\";\n", k, *target)
		}
	}
	buf.WriteString("}\n")

	return buf.Bytes()
}

// Merge overlays migrations on existing; new entries win.
func Merge(existing, migrations types.Migrations) types.Migrations {
	merged := existing.Clone()
	for k, v := range migrations {
		merged[k] = v
	}
	return merged
}

// ReadRegistry reads the registry at path. A missing file is empty; a
// malformed one is empty and reported through the error.
func ReadRegistry(path string) (types.Migrations, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return types.Migrations{}, nil
	}
	if err != nil {
		return types.Migrations{}, err
	}
	return ParseRegistry(content)
}

// UpdateRegistry merges migrations into the registry in dir and rewrites it
// when its content changes. Failures are logged when verbose and never
// returned. It reports whether the file was written.
func UpdateRegistry(migrations types.Migrations, dir string, logger *log.Logger, verbose bool) bool {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	path := filepath.Join(dir, RegistryFileName)

	existing, err := ReadRegistry(path)
	if err != nil && verbose {
		logger.Warn("Failed to parse existing deprecated registry", "path", path, "error", err)
	}

	if len(migrations) == 0 && len(existing) == 0 {
		return false
	}

	rendered := RenderRegistry(Merge(existing, migrations))

	if current, err := os.ReadFile(path); err == nil && bytes.Equal(current, rendered) {
		return false
	}

	if err := os.WriteFile(path, rendered, 0o644); err != nil {
		if verbose {
			logger.Warn("Failed to update deprecated registry", "path", path, "error", err)
		}
		return false
	}

	if verbose && len(migrations) > 0 {
		logger.Info("Updated deprecated registry", "path", path, "migrations", len(migrations))
	}
	return true
}

// stripComments drops # line comments.
func stripComments(content []byte) []byte {
	var out bytes.Buffer
	for _, line := range bytes.Split(content, []byte("\n")) {
		if i := bytes.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		out.Write(line)
		out.WriteByte('\n')
	}
	return out.Bytes()
}
