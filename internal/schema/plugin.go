// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package schema extracts plugin metadata and settings shapes from parsed
// plugin sources.
package schema

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/api2spec/plugopts/internal/parser"
	"github.com/api2spec/plugopts/internal/workspace"
)

// Callee names recognized in plugin sources.
const (
	DefinePluginCallee   = "definePlugin"
	DefineSettingsCallee = "definePluginSettings"
)

// Resolver is the symbol resolution capability the extractors need.
// *workspace.Workspace implements it.
type Resolver interface {
	Parser() *parser.TypeScriptParser
	Evaluate(f *workspace.SourceFile, node *sitter.Node) (interface{}, bool)
	EvaluateString(f *workspace.SourceFile, node *sitter.Node) (string, bool)
	ResolveNode(f *workspace.SourceFile, node *sitter.Node) *sitter.Node
}

// PluginInfo is the metadata declared in a definePlugin call. Fields are nil
// when absent or not statically resolvable.
type PluginInfo struct {
	Name        *string
	Description *string
}

// ExtractPluginInfo reads name and description from the first definePlugin
// call in f.
func ExtractPluginInfo(r Resolver, f *workspace.SourceFile) PluginInfo {
	var info PluginInfo

	p := r.Parser()
	call := p.FindFirstCall(f.Root(), f.Content(), DefinePluginCallee)
	if call == nil {
		return info
	}

	args := p.GetCallArguments(call, f.Content())
	if len(args) == 0 {
		return info
	}

	obj := r.ResolveNode(f, args[0])
	if obj == nil || obj.Type() != "object" {
		return info
	}

	if node := p.FindProperty(obj, f.Content(), "name"); node != nil {
		if name, ok := r.EvaluateString(f, node); ok {
			info.Name = &name
		}
	}

	if node := p.FindProperty(obj, f.Content(), "description"); node != nil {
		if desc, ok := r.EvaluateString(f, node); ok {
			info.Description = &desc
		}
	}

	return info
}

// FindSettingsDeclaration returns the first definePluginSettings call in f.
func FindSettingsDeclaration(p *parser.TypeScriptParser, f *workspace.SourceFile) (*sitter.Node, bool) {
	call := p.FindFirstCall(f.Root(), f.Content(), DefineSettingsCallee)
	return call, call != nil
}
