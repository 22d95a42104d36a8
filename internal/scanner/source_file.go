// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package scanner discovers plugin directories and TypeScript source files.
package scanner

import (
	"path/filepath"
	"strings"
)

// sourceExtensions are the extensions of files the analyzers understand.
var sourceExtensions = map[string]bool{
	".ts":  true,
	".tsx": true,
	".mts": true,
	".cts": true,
}

// IsSourceFile reports whether path has a TypeScript extension. Declaration
// files are excluded since they carry no call sites.
func IsSourceFile(path string) bool {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".d.ts") {
		return false
	}
	return sourceExtensions[filepath.Ext(lower)]
}
