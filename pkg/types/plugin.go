// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package types provides the core data structures shared by the extraction
// and reconciliation stages.
package types

// PluginRecord describes one plugin discovered in a source tree.
type PluginRecord struct {
	// Name is the display name, either declared or derived from the directory
	Name string `json:"name" yaml:"name"`

	// DirectoryName is the plugin's directory slug
	DirectoryName string `json:"directoryName" yaml:"directoryName"`

	// Description is the declared description, nil when the plugin has none
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`

	// Settings maps setting keys to their extracted shape. Never nil for
	// records produced by the extractor.
	Settings map[string]SettingDescriptor `json:"settings" yaml:"settings"`
}

// DescriptionOr returns the description, or fallback when it is absent.
func (r PluginRecord) DescriptionOr(fallback string) string {
	if r.Description == nil {
		return fallback
	}
	return *r.Description
}

// SettingDescriptor is the statically discoverable shape of a single setting.
type SettingDescriptor struct {
	// Type is the lower-cased option type (string, number, bigint, boolean,
	// select, slider, component, custom). Empty when it could not be read.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Default is the resolved default value. ComputedDefault marks a default
	// that exists but has no static value.
	Default interface{} `json:"default,omitempty" yaml:"default,omitempty"`

	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`

	RestartNeeded bool `json:"restartNeeded,omitempty" yaml:"restartNeeded,omitempty"`

	Hidden bool `json:"hidden,omitempty" yaml:"hidden,omitempty"`

	// Options lists the choices of a select setting
	Options []SelectOption `json:"options,omitempty" yaml:"options,omitempty"`

	// Markers lists the slider stops of a slider setting
	Markers []float64 `json:"markers,omitempty" yaml:"markers,omitempty"`

	StickToMarkers bool `json:"stickToMarkers,omitempty" yaml:"stickToMarkers,omitempty"`
}

// ComputedDefault is stored as a default when the declaration has a default
// that cannot be evaluated statically.
const ComputedDefault = "<computed>"

// SelectOption is one choice of a select setting.
type SelectOption struct {
	Label   string      `json:"label" yaml:"label"`
	Value   interface{} `json:"value" yaml:"value"`
	Default bool        `json:"default,omitempty" yaml:"default,omitempty"`
}

// PluginMapping maps plugin display names to their records.
type PluginMapping map[string]PluginRecord

// Names returns the mapping's keys in no particular order.
func (m PluginMapping) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	return names
}

// ParsedPlugins holds the two plugin mappings extracted from one source tree:
// the plugins under the shared plugin directory and the plugins under the
// fork-only directory.
type ParsedPlugins struct {
	VencordPlugins  PluginMapping `json:"vencordPlugins" yaml:"vencordPlugins"`
	EquicordPlugins PluginMapping `json:"equicordPlugins" yaml:"equicordPlugins"`
}

// CategorizedResult is the reconciled cross-tree view. The three mappings
// are disjoint.
type CategorizedResult struct {
	// Generic holds plugins matched across both trees, keyed by the first
	// tree's name and valued with the second tree's record
	Generic PluginMapping `json:"generic" yaml:"generic"`

	// VencordOnly holds first-tree plugins with no counterpart
	VencordOnly PluginMapping `json:"vencordOnly" yaml:"vencordOnly"`

	// EquicordOnly holds second-tree fork-only plugins that no first-tree
	// plugin matched
	EquicordOnly PluginMapping `json:"equicordOnly" yaml:"equicordOnly"`
}

// Total returns the number of plugins across all categories.
func (c CategorizedResult) Total() int {
	return len(c.Generic) + len(c.VencordOnly) + len(c.EquicordOnly)
}
