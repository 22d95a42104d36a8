// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package plugins extracts plugin records from plugin source trees and
// reconciles the records of two trees.
package plugins

import (
	"fmt"

	"github.com/api2spec/plugopts/pkg/types"
)

// EntryFileCandidates are tried in order when looking for a plugin's entry
// file; the first one that exists wins.
var EntryFileCandidates = []string{"index.tsx", "index.ts", "settings.ts"}

// SettingsFileName is the sibling file searched for a settings declaration
// when the entry file has none.
const SettingsFileName = "settings.ts"

// SkipReason explains why a directory produced no plugin record.
type SkipReason int

const (
	// SkipNone means a record was produced
	SkipNone SkipReason = iota

	// SkipNoEntryFile means none of the entry file candidates exist
	SkipNoEntryFile

	// SkipNoName means neither a declared nor a derived name was found
	SkipNoName
)

// String returns a readable reason.
func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipNoEntryFile:
		return "no entry file"
	case SkipNoName:
		return "no plugin name"
	default:
		return fmt.Sprintf("SkipReason(%d)", int(r))
	}
}

// Result is the outcome of extracting a single plugin directory. Record is
// only meaningful when Skip is SkipNone.
type Result struct {
	Record types.PluginRecord
	Skip   SkipReason
}

// OK reports whether the result carries a record.
func (r Result) OK() bool {
	return r.Skip == SkipNone
}

// Skipped builds a result without a record.
func Skipped(reason SkipReason) Result {
	return Result{Skip: reason}
}
