// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package plugins

import (
	"sort"
	"strings"

	"github.com/api2spec/plugopts/pkg/types"
)

// RenameTable maps first-tree plugin names to the name the second tree
// uses for the same plugin.
var RenameTable = map[string]string{
	"oneko": "CursorBuddy",
}

// Categorize partitions the first tree's shared plugins against the second
// tree. Matching tries, in order: the exact name among the second tree's
// shared plugins, the rename table (fork-only bucket first, then shared) and
// the case-insensitive directory slug among the second tree's shared
// plugins. Matched plugins are keyed by the first tree's name and valued
// with the second tree's record. equicord may be nil.
func Categorize(vencord types.ParsedPlugins, equicord *types.ParsedPlugins) types.CategorizedResult {
	shared := types.PluginMapping{}
	only := types.PluginMapping{}
	if equicord != nil {
		if equicord.VencordPlugins != nil {
			shared = equicord.VencordPlugins
		}
		if equicord.EquicordPlugins != nil {
			only = equicord.EquicordPlugins
		}
	}

	bySlug := slugIndex(shared)

	result := types.CategorizedResult{
		Generic:      types.PluginMapping{},
		VencordOnly:  types.PluginMapping{},
		EquicordOnly: types.PluginMapping{},
	}
	matched := make(map[string]bool)

	for name, record := range vencord.VencordPlugins {
		counterpart, ok := match(name, record, shared, only, bySlug)
		if !ok {
			result.VencordOnly[name] = record
			continue
		}
		result.Generic[name] = counterpart
		matched[counterpart.Name] = true
	}

	for name, record := range only {
		if !matched[name] {
			result.EquicordOnly[name] = record
		}
	}

	return result
}

// match finds the second-tree record for a first-tree plugin.
func match(name string, record types.PluginRecord, shared, only types.PluginMapping, bySlug map[string]string) (types.PluginRecord, bool) {
	if counterpart, ok := shared[name]; ok {
		return counterpart, true
	}

	if renamed, ok := RenameTable[name]; ok {
		if counterpart, ok := only[renamed]; ok {
			return counterpart, true
		}
		counterpart, ok := shared[renamed]
		return counterpart, ok
	}

	if record.DirectoryName == "" {
		return types.PluginRecord{}, false
	}
	sharedName, ok := bySlug[strings.ToLower(record.DirectoryName)]
	if !ok {
		return types.PluginRecord{}, false
	}
	counterpart, ok := shared[sharedName]
	return counterpart, ok
}

// slugIndex maps lower-cased directory slugs to plugin names. When two
// plugins share a slug the name that sorts first wins.
func slugIndex(mapping types.PluginMapping) map[string]string {
	names := mapping.Names()
	sort.Strings(names)

	index := make(map[string]string, len(names))
	for _, name := range names {
		dir := mapping[name].DirectoryName
		if dir == "" {
			continue
		}
		key := strings.ToLower(dir)
		if _, taken := index[key]; !taken {
			index[key] = name
		}
	}
	return index
}
