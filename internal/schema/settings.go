// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/api2spec/plugopts/internal/workspace"
	"github.com/api2spec/plugopts/pkg/types"
)

// OptionTypeEnum is the enum setting types are declared with.
const OptionTypeEnum = "OptionType"

// optionTypes lists OptionType members by ordinal.
var optionTypes = []string{
	"string",
	"number",
	"bigint",
	"boolean",
	"select",
	"slider",
	"component",
	"custom",
}

// ExtractSettings converts a definePluginSettings call into setting
// descriptors keyed by setting name. Settings whose definition is not an
// object are skipped.
func ExtractSettings(r Resolver, f *workspace.SourceFile, call *sitter.Node) map[string]types.SettingDescriptor {
	settings := make(map[string]types.SettingDescriptor)
	if call == nil {
		return settings
	}

	p := r.Parser()
	args := p.GetCallArguments(call, f.Content())
	if len(args) == 0 {
		return settings
	}

	obj := r.ResolveNode(f, args[0])
	if obj == nil || obj.Type() != "object" {
		return settings
	}

	for _, prop := range p.ObjectProperties(obj, f.Content()) {
		def := r.ResolveNode(f, prop.Value)
		if def == nil || def.Type() != "object" {
			continue
		}
		settings[prop.Key] = extractSetting(r, f, def)
	}

	return settings
}

// extractSetting reads one setting definition object.
func extractSetting(r Resolver, f *workspace.SourceFile, def *sitter.Node) types.SettingDescriptor {
	var d types.SettingDescriptor
	hasDefault := false

	for _, prop := range r.Parser().ObjectProperties(def, f.Content()) {
		value := prop.Value

		switch prop.Key {
		case "type":
			d.Type = optionType(r, f, value)
		case "description":
			d.Description, _ = r.EvaluateString(f, value)
		case "default":
			hasDefault = true
			if v, ok := r.Evaluate(f, value); ok {
				d.Default = v
			} else {
				d.Default = types.ComputedDefault
			}
		case "placeholder":
			d.Placeholder, _ = r.EvaluateString(f, value)
		case "restartNeeded":
			d.RestartNeeded = evaluateBool(r, f, value)
		case "hidden":
			d.Hidden = evaluateBool(r, f, value)
		case "options":
			d.Options = extractOptions(r, f, value)
		case "markers":
			d.Markers = extractMarkers(r, f, value)
		case "stickToMarkers":
			d.StickToMarkers = evaluateBool(r, f, value)
		}
	}

	if !hasDefault {
		for _, opt := range d.Options {
			if opt.Default {
				d.Default = opt.Value
				break
			}
		}
	}

	return d
}

// optionType maps OptionType.X or a resolved ordinal to a lower-case name.
func optionType(r Resolver, f *workspace.SourceFile, node *sitter.Node) string {
	node = r.ResolveNode(f, node)
	if node == nil {
		return ""
	}

	if node.Type() == "member_expression" {
		obj, prop := r.Parser().GetMemberExpressionParts(node, f.Content())
		if obj == OptionTypeEnum {
			return strings.ToLower(prop)
		}
	}

	v, ok := r.Evaluate(f, node)
	if !ok {
		return ""
	}
	switch x := v.(type) {
	case float64:
		i := int(x)
		if float64(i) == x && i >= 0 && i < len(optionTypes) {
			return optionTypes[i]
		}
	case string:
		return strings.ToLower(x)
	}
	return ""
}

// extractOptions reads the label/value/default entries of a select setting.
// Options built at runtime yield nil.
func extractOptions(r Resolver, f *workspace.SourceFile, node *sitter.Node) []types.SelectOption {
	node = r.ResolveNode(f, node)
	if node == nil || node.Type() != "array" {
		return nil
	}

	p := r.Parser()
	var options []types.SelectOption
	for i := 0; i < int(node.NamedChildCount()); i++ {
		elem := r.ResolveNode(f, node.NamedChild(i))
		if elem == nil || elem.Type() != "object" {
			continue
		}

		var opt types.SelectOption
		for _, prop := range p.ObjectProperties(elem, f.Content()) {
			switch prop.Key {
			case "label":
				opt.Label, _ = r.EvaluateString(f, prop.Value)
			case "value":
				if v, ok := r.Evaluate(f, prop.Value); ok {
					opt.Value = v
				} else {
					opt.Value = types.ComputedDefault
				}
			case "default":
				opt.Default = evaluateBool(r, f, prop.Value)
			}
		}
		options = append(options, opt)
	}

	return options
}

func extractMarkers(r Resolver, f *workspace.SourceFile, node *sitter.Node) []float64 {
	v, ok := r.Evaluate(f, node)
	if !ok {
		return nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}

	markers := make([]float64, 0, len(items))
	for _, item := range items {
		if n, ok := item.(float64); ok {
			markers = append(markers, n)
		}
	}
	return markers
}

// evaluateBool reports true only for a statically true literal.
func evaluateBool(r Resolver, f *workspace.SourceFile, node *sitter.Node) bool {
	v, ok := r.Evaluate(f, node)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
