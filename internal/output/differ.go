// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/api2spec/plugopts/pkg/types"
)

// DiffType represents the type of change detected.
type DiffType string

const (
	// DiffTypeAdded indicates a new plugin was added.
	DiffTypeAdded DiffType = "added"

	// DiffTypeRemoved indicates a plugin was removed.
	DiffTypeRemoved DiffType = "removed"

	// DiffTypeMoved indicates a plugin changed category.
	DiffTypeMoved DiffType = "moved"

	// DiffTypeModified indicates a plugin's description or settings changed.
	DiffTypeModified DiffType = "modified"
)

// Category names a bucket of a categorized document.
type Category string

const (
	CategoryGeneric      Category = "generic"
	CategoryVencordOnly  Category = "vencordOnly"
	CategoryEquicordOnly Category = "equicordOnly"
)

// PluginChange represents a change to one plugin.
type PluginChange struct {
	Type        DiffType
	Name        string
	From        Category
	To          Category
	Description string
}

// DiffResult contains the differences between two documents.
type DiffResult struct {
	// Changes contains all plugin changes, sorted by name.
	Changes []PluginChange

	// HasBreakingChanges indicates a plugin or setting was removed.
	HasBreakingChanges bool

	// Summary provides a human-readable summary of changes.
	Summary string
}

// IsEmpty returns true if there are no differences.
func (d *DiffResult) IsEmpty() bool {
	return len(d.Changes) == 0
}

// Differ compares two plugin documents.
type Differ struct{}

// NewDiffer creates a new Differ.
func NewDiffer() *Differ {
	return &Differ{}
}

type located struct {
	category Category
	record   types.PluginRecord
}

// Diff compares two documents and returns the differences. Either may be
// nil.
func (d *Differ) Diff(a, b *types.CategorizedResult) (*DiffResult, error) {
	result := &DiffResult{
		Changes: []PluginChange{},
	}

	aIndex, bIndex := index(a), index(b)
	breaking := false

	for name, old := range aIndex {
		cur, exists := bIndex[name]
		if !exists {
			result.Changes = append(result.Changes, PluginChange{
				Type:        DiffTypeRemoved,
				Name:        name,
				From:        old.category,
				Description: fmt.Sprintf("Removed %s from %s", name, old.category),
			})
			breaking = true
			continue
		}

		if old.category != cur.category {
			result.Changes = append(result.Changes, PluginChange{
				Type:        DiffTypeMoved,
				Name:        name,
				From:        old.category,
				To:          cur.category,
				Description: fmt.Sprintf("Moved %s from %s to %s", name, old.category, cur.category),
			})
		}

		if details, removedSettings := d.recordChanges(old.record, cur.record); len(details) > 0 {
			result.Changes = append(result.Changes, PluginChange{
				Type:        DiffTypeModified,
				Name:        name,
				From:        old.category,
				To:          cur.category,
				Description: strings.Join(details, "; "),
			})
			breaking = breaking || removedSettings
		}
	}

	for name, cur := range bIndex {
		if _, exists := aIndex[name]; !exists {
			result.Changes = append(result.Changes, PluginChange{
				Type:        DiffTypeAdded,
				Name:        name,
				To:          cur.category,
				Description: fmt.Sprintf("Added %s to %s", name, cur.category),
			})
		}
	}

	sort.SliceStable(result.Changes, func(i, j int) bool {
		if result.Changes[i].Name != result.Changes[j].Name {
			return result.Changes[i].Name < result.Changes[j].Name
		}
		return result.Changes[i].Type < result.Changes[j].Type
	})

	result.HasBreakingChanges = breaking
	result.Summary = d.generateSummary(result)

	return result, nil
}

// index maps plugin names to their category. Earlier categories win if a
// name appears twice.
func index(doc *types.CategorizedResult) map[string]located {
	idx := make(map[string]located)
	if doc == nil {
		return idx
	}

	buckets := []struct {
		category Category
		mapping  types.PluginMapping
	}{
		{CategoryGeneric, doc.Generic},
		{CategoryVencordOnly, doc.VencordOnly},
		{CategoryEquicordOnly, doc.EquicordOnly},
	}
	for _, b := range buckets {
		for name, record := range b.mapping {
			if _, seen := idx[name]; !seen {
				idx[name] = located{category: b.category, record: record}
			}
		}
	}
	return idx
}

// recordChanges describes what changed between two records of one plugin.
func (d *Differ) recordChanges(a, b types.PluginRecord) ([]string, bool) {
	var details []string

	if a.DescriptionOr("") != b.DescriptionOr("") || (a.Description == nil) != (b.Description == nil) {
		details = append(details, "description changed")
	}
	if a.DirectoryName != b.DirectoryName {
		details = append(details, fmt.Sprintf("directory %s -> %s", a.DirectoryName, b.DirectoryName))
	}

	var added, removed, changed []string
	for key, aSetting := range a.Settings {
		bSetting, exists := b.Settings[key]
		if !exists {
			removed = append(removed, key)
		} else if settingModified(aSetting, bSetting) {
			changed = append(changed, key)
		}
	}
	for key := range b.Settings {
		if _, exists := a.Settings[key]; !exists {
			added = append(added, key)
		}
	}

	for _, group := range []struct {
		label string
		keys  []string
	}{
		{"settings added", added},
		{"settings removed", removed},
		{"settings changed", changed},
	} {
		if len(group.keys) > 0 {
			sort.Strings(group.keys)
			details = append(details, fmt.Sprintf("%s: %s", group.label, strings.Join(group.keys, ", ")))
		}
	}

	return details, len(removed) > 0
}

// settingModified compares descriptors by their JSON encoding, so a YAML
// document's integers equal a JSON document's floats.
func settingModified(a, b types.SettingDescriptor) bool {
	aj, aErr := json.Marshal(a)
	bj, bErr := json.Marshal(b)
	if aErr != nil || bErr != nil {
		return true
	}
	return !bytes.Equal(aj, bj)
}

// generateSummary creates a human-readable summary of changes.
func (d *Differ) generateSummary(result *DiffResult) string {
	if result.IsEmpty() {
		return "No changes detected"
	}

	counts := make(map[DiffType]int)
	for _, c := range result.Changes {
		counts[c.Type]++
	}

	var parts []string
	for _, t := range []DiffType{DiffTypeAdded, DiffTypeRemoved, DiffTypeMoved, DiffTypeModified} {
		if counts[t] > 0 {
			parts = append(parts, fmt.Sprintf("%d plugin(s) %s", counts[t], t))
		}
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(parts, ", "))

	if result.HasBreakingChanges {
		sb.WriteString(" [BREAKING CHANGES DETECTED]")
	}

	return sb.String()
}

// FormatDiff returns a formatted string representation of the diff.
func FormatDiff(result *DiffResult) string {
	if result.IsEmpty() {
		return "No differences found."
	}

	var sb strings.Builder

	sb.WriteString("=== Plugin Options Diff ===\n\n")
	sb.WriteString(result.Summary)
	sb.WriteString("\n\n")

	for _, c := range result.Changes {
		symbol := "  "
		switch c.Type {
		case DiffTypeAdded:
			symbol = "+ "
		case DiffTypeRemoved:
			symbol = "- "
		case DiffTypeMoved:
			symbol = "> "
		case DiffTypeModified:
			symbol = "~ "
		}
		sb.WriteString(fmt.Sprintf("%s%s: %s\n", symbol, c.Name, c.Description))
	}

	return sb.String()
}
