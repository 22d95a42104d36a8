// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package parser provides TypeScript and TSX parsing on top of tree-sitter.
package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// TypeScriptParser parses TypeScript and TSX sources.
//
// A tree-sitter parser is not safe for concurrent use, so every parse gets
// its own; a single TypeScriptParser can be shared between goroutines.
type TypeScriptParser struct {
	typescript *sitter.Language
	tsx        *sitter.Language
}

// NewTypeScriptParser creates a new TypeScript parser.
func NewTypeScriptParser() *TypeScriptParser {
	return &TypeScriptParser{
		typescript: typescript.GetLanguage(),
		tsx:        tsx.GetLanguage(),
	}
}

// ParsedTSFile represents a parsed TypeScript source file.
type ParsedTSFile struct {
	// Path is the file path
	Path string

	// Content is the original source content
	Content []byte

	// Tree is the tree-sitter parse tree
	Tree *sitter.Tree

	// RootNode is the root node of the AST
	RootNode *sitter.Node

	// Imports contains the file's import statements
	Imports []TSImport

	// Enums contains every enum declaration in the file
	Enums []TSEnum

	// Constants maps top-level const/let/var names to their initializer
	Constants map[string]*sitter.Node

	// Exports contains exported identifiers
	Exports []string
}

// TSImport represents one import statement.
type TSImport struct {
	// Source is the module specifier ("@utils/types", "./settings")
	Source string

	// Default is the local name of the default import
	Default string

	// Namespace is the local name of a namespace import (import * as X)
	Namespace string

	// Named maps local names to the imported names
	Named map[string]string

	// Line is the source line number
	Line int
}

// TSEnum represents an enum declaration.
type TSEnum struct {
	Name       string
	Members    []TSEnumMember
	IsExported bool
	Line       int
}

// TSEnumMember is one enum member. Value is nil when the member has no
// initializer.
type TSEnumMember struct {
	Name  string
	Value *sitter.Node
}

// TSObjectProperty is one key of an object literal.
type TSObjectProperty struct {
	// Key is the property name with quotes removed
	Key string

	// Value is the value expression. For shorthand properties it is the
	// shorthand identifier itself.
	Value *sitter.Node

	// Node is the whole property node
	Node *sitter.Node
}

// Parse parses TypeScript source code from bytes.
func (p *TypeScriptParser) Parse(filename string, content []byte) (*ParsedTSFile, error) {
	return p.ParseContext(context.Background(), filename, content)
}

// ParseContext parses source code, choosing the TSX grammar for .tsx files.
func (p *TypeScriptParser) ParseContext(ctx context.Context, filename string, content []byte) (*ParsedTSFile, error) {
	sp := sitter.NewParser()
	defer sp.Close()
	sp.SetLanguage(p.languageFor(filename))

	tree, err := sp.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TypeScript: %w", err)
	}

	rootNode := tree.RootNode()
	if rootNode == nil {
		tree.Close()
		return nil, fmt.Errorf("failed to get root node")
	}

	pf := &ParsedTSFile{
		Path:     filename,
		Content:  content,
		Tree:     tree,
		RootNode: rootNode,
	}

	pf.Imports = p.ExtractImports(rootNode, content)
	pf.Enums = p.ExtractEnums(rootNode, content)
	pf.Constants, pf.Exports = p.extractTopLevel(rootNode, content)

	return pf, nil
}

func (p *TypeScriptParser) languageFor(filename string) *sitter.Language {
	if strings.EqualFold(filepath.Ext(filename), ".tsx") {
		return p.tsx
	}
	return p.typescript
}

// ExtractImports extracts the top-level import statements.
func (p *TypeScriptParser) ExtractImports(rootNode *sitter.Node, content []byte) []TSImport {
	var imports []TSImport

	for i := 0; i < int(rootNode.NamedChildCount()); i++ {
		stmt := rootNode.NamedChild(i)
		if stmt.Type() != "import_statement" {
			continue
		}

		imp := TSImport{
			Named: make(map[string]string),
			Line:  int(stmt.StartPoint().Row) + 1,
		}

		for j := 0; j < int(stmt.NamedChildCount()); j++ {
			child := stmt.NamedChild(j)
			switch child.Type() {
			case "string":
				imp.Source, _ = p.ExtractStringLiteral(child, content)
			case "import_clause":
				p.parseImportClause(child, content, &imp)
			}
		}

		if imp.Source != "" {
			imports = append(imports, imp)
		}
	}

	return imports
}

func (p *TypeScriptParser) parseImportClause(clause *sitter.Node, content []byte, imp *TSImport) {
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		child := clause.NamedChild(i)
		switch child.Type() {
		case "identifier":
			imp.Default = child.Content(content)
		case "namespace_import":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if id := child.NamedChild(j); id.Type() == "identifier" {
					imp.Namespace = id.Content(content)
				}
			}
		case "named_imports":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				spec := child.NamedChild(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				name := spec.ChildByFieldName("name")
				if name == nil {
					continue
				}
				local := name.Content(content)
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					local = alias.Content(content)
				}
				imp.Named[local] = name.Content(content)
			}
		}
	}
}

// ExtractEnums extracts all enum declarations from the AST.
func (p *TypeScriptParser) ExtractEnums(rootNode *sitter.Node, content []byte) []TSEnum {
	var enums []TSEnum

	p.walkNodes(rootNode, func(node *sitter.Node) bool {
		if node.Type() != "enum_declaration" {
			return true
		}

		enum := TSEnum{
			Line:       int(node.StartPoint().Row) + 1,
			IsExported: node.Parent() != nil && node.Parent().Type() == "export_statement",
		}
		if name := node.ChildByFieldName("name"); name != nil {
			enum.Name = name.Content(content)
		}

		if body := node.ChildByFieldName("body"); body != nil {
			for i := 0; i < int(body.NamedChildCount()); i++ {
				member := body.NamedChild(i)
				switch member.Type() {
				case "property_identifier":
					enum.Members = append(enum.Members, TSEnumMember{Name: member.Content(content)})
				case "string":
					name, _ := p.ExtractStringLiteral(member, content)
					enum.Members = append(enum.Members, TSEnumMember{Name: name})
				case "enum_assignment":
					nameNode := member.ChildByFieldName("name")
					if nameNode == nil && member.NamedChildCount() > 0 {
						nameNode = member.NamedChild(0)
					}
					if nameNode == nil {
						continue
					}
					name := nameNode.Content(content)
					if nameNode.Type() == "string" {
						name, _ = p.ExtractStringLiteral(nameNode, content)
					}
					enum.Members = append(enum.Members, TSEnumMember{
						Name:  name,
						Value: member.ChildByFieldName("value"),
					})
				}
			}
		}

		if enum.Name != "" {
			enums = append(enums, enum)
		}
		return false
	})

	return enums
}

// extractTopLevel collects top-level variable initializers and exported names.
func (p *TypeScriptParser) extractTopLevel(rootNode *sitter.Node, content []byte) (map[string]*sitter.Node, []string) {
	constants := make(map[string]*sitter.Node)
	exports := []string{}

	collect := func(decl *sitter.Node, exported bool) {
		for i := 0; i < int(decl.NamedChildCount()); i++ {
			declarator := decl.NamedChild(i)
			if declarator.Type() != "variable_declarator" {
				continue
			}
			name := declarator.ChildByFieldName("name")
			if name == nil || name.Type() != "identifier" {
				continue
			}
			id := name.Content(content)
			if value := declarator.ChildByFieldName("value"); value != nil {
				constants[id] = value
			}
			if exported {
				exports = append(exports, id)
			}
		}
	}

	for i := 0; i < int(rootNode.NamedChildCount()); i++ {
		stmt := rootNode.NamedChild(i)
		switch stmt.Type() {
		case "lexical_declaration", "variable_declaration":
			collect(stmt, false)
		case "export_statement":
			decl := stmt.ChildByFieldName("declaration")
			if decl == nil {
				continue
			}
			switch decl.Type() {
			case "lexical_declaration", "variable_declaration":
				collect(decl, true)
			case "enum_declaration", "function_declaration", "class_declaration":
				if name := decl.ChildByFieldName("name"); name != nil {
					exports = append(exports, name.Content(content))
				}
			}
		}
	}

	return constants, exports
}

// walkNodes walks all nodes in the tree, calling fn for each node.
// If fn returns false, it stops recursing into that node's children.
func (p *TypeScriptParser) walkNodes(node *sitter.Node, fn func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !fn(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		p.walkNodes(node.Child(i), fn)
	}
}

// Close cleans up the parsed file resources.
func (pf *ParsedTSFile) Close() {
	if pf.Tree != nil {
		pf.Tree.Close()
	}
}

// FindCallsMatching returns every call_expression for which match reports
// true, in source order.
func (p *TypeScriptParser) FindCallsMatching(rootNode *sitter.Node, content []byte, match func(call *sitter.Node) bool) []*sitter.Node {
	var calls []*sitter.Node

	p.walkNodes(rootNode, func(node *sitter.Node) bool {
		if node.Type() == "call_expression" && match(node) {
			calls = append(calls, node)
		}
		return true
	})

	return calls
}

// FindFirstCall returns the first call_expression whose callee text is
// exactly callee.
func (p *TypeScriptParser) FindFirstCall(rootNode *sitter.Node, content []byte, callee string) *sitter.Node {
	var found *sitter.Node

	p.walkNodes(rootNode, func(node *sitter.Node) bool {
		if found != nil {
			return false
		}
		if node.Type() == "call_expression" && p.GetCalleeText(node, content) == callee {
			found = node
			return false
		}
		return true
	})

	return found
}

// GetCalleeText returns the callee text from a call_expression.
func (p *TypeScriptParser) GetCalleeText(node *sitter.Node, content []byte) string {
	if node.Type() != "call_expression" {
		return ""
	}

	callee := node.ChildByFieldName("function")
	if callee == nil && node.ChildCount() > 0 {
		callee = node.Child(0)
	}
	if callee == nil {
		return ""
	}

	return callee.Content(content)
}

// GetCallArguments returns the argument expressions of a call_expression.
// Punctuation and comments are skipped.
func (p *TypeScriptParser) GetCallArguments(node *sitter.Node, content []byte) []*sitter.Node {
	var args []*sitter.Node

	if node.Type() != "call_expression" {
		return args
	}

	argNode := node.ChildByFieldName("arguments")
	if argNode == nil {
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Type() == "arguments" {
				argNode = child
				break
			}
		}
	}

	if argNode == nil {
		return args
	}

	for i := 0; i < int(argNode.NamedChildCount()); i++ {
		child := argNode.NamedChild(i)
		if child.Type() != "comment" {
			args = append(args, child)
		}
	}

	return args
}

// ObjectProperties returns the properties of an object literal in source
// order. Spread elements and computed keys are skipped.
func (p *TypeScriptParser) ObjectProperties(node *sitter.Node, content []byte) []TSObjectProperty {
	var props []TSObjectProperty

	if node == nil || node.Type() != "object" {
		return props
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "pair":
			keyNode := child.ChildByFieldName("key")
			if keyNode == nil {
				continue
			}
			key, ok := p.propertyKey(keyNode, content)
			if !ok {
				continue
			}
			props = append(props, TSObjectProperty{
				Key:   key,
				Value: child.ChildByFieldName("value"),
				Node:  child,
			})
		case "shorthand_property_identifier":
			props = append(props, TSObjectProperty{
				Key:   child.Content(content),
				Value: child,
				Node:  child,
			})
		case "method_definition":
			nameNode := child.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			if key, ok := p.propertyKey(nameNode, content); ok {
				props = append(props, TSObjectProperty{Key: key, Value: child, Node: child})
			}
		}
	}

	return props
}

// FindProperty returns the value of the first property named key.
func (p *TypeScriptParser) FindProperty(node *sitter.Node, content []byte, key string) *sitter.Node {
	for _, prop := range p.ObjectProperties(node, content) {
		if prop.Key == key {
			return prop.Value
		}
	}
	return nil
}

func (p *TypeScriptParser) propertyKey(keyNode *sitter.Node, content []byte) (string, bool) {
	switch keyNode.Type() {
	case "property_identifier", "number", "private_property_identifier":
		return keyNode.Content(content), true
	case "string":
		return p.ExtractStringLiteral(keyNode, content)
	default:
		return "", false
	}
}

// ExtractStringLiteral extracts a string value from a string node. Template
// strings are only accepted when they contain no substitutions.
func (p *TypeScriptParser) ExtractStringLiteral(node *sitter.Node, content []byte) (string, bool) {
	if node == nil {
		return "", false
	}

	switch node.Type() {
	case "string", "template_string":
	case "string_fragment":
		return node.Content(content), true
	default:
		return "", false
	}

	if node.Type() == "template_string" {
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if node.NamedChild(i).Type() == "template_substitution" {
				return "", false
			}
		}
	}

	text := node.Content(content)

	// Remove quotes
	if len(text) >= 2 {
		if (text[0] == '"' && text[len(text)-1] == '"') ||
			(text[0] == '\'' && text[len(text)-1] == '\'') ||
			(text[0] == '`' && text[len(text)-1] == '`') {
			return Unescape(text[1 : len(text)-1]), true
		}
	}

	return text, true
}

// GetMemberExpressionParts returns the object and property of a member_expression.
func (p *TypeScriptParser) GetMemberExpressionParts(node *sitter.Node, content []byte) (object, property string) {
	if node.Type() != "member_expression" {
		return "", ""
	}

	objNode := node.ChildByFieldName("object")
	if objNode == nil && node.ChildCount() > 0 {
		objNode = node.Child(0)
	}

	propNode := node.ChildByFieldName("property")
	if propNode == nil && node.ChildCount() > 2 {
		propNode = node.Child(2)
	}

	if objNode != nil {
		object = objNode.Content(content)
	}
	if propNode != nil {
		property = propNode.Content(content)
	}

	return object, property
}

// UnwrapExpression strips parentheses, type assertions and non-null
// assertions that do not change a value.
func UnwrapExpression(node *sitter.Node) *sitter.Node {
	for node != nil {
		switch node.Type() {
		case "parenthesized_expression", "as_expression", "satisfies_expression",
			"non_null_expression", "type_assertion":
			inner := firstExpressionChild(node)
			if inner == nil {
				return node
			}
			node = inner
		default:
			return node
		}
	}
	return node
}

func firstExpressionChild(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "comment", "type_arguments":
			continue
		}
		return child
	}
	return nil
}
