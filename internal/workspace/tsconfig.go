// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CompilerOptions are the parse and module-resolution options in effect.
type CompilerOptions struct {
	Target       string
	Module       string
	JSX          string
	AllowJS      bool
	SkipLibCheck bool

	// BaseURL is absolute once read from a configuration file
	BaseURL string

	// Paths maps import patterns to absolute target patterns
	Paths map[string][]string
}

// DefaultCompilerOptions returns the baseline options used when the
// repository has no configuration or leaves a field unset.
func DefaultCompilerOptions() CompilerOptions {
	return CompilerOptions{
		Target:       "ES2022",
		Module:       "ESNext",
		JSX:          "react",
		AllowJS:      true,
		SkipLibCheck: true,
	}
}

// Merge returns o overridden by every field set in override.
func (o CompilerOptions) Merge(override CompilerOptions) CompilerOptions {
	if override.Target != "" {
		o.Target = override.Target
	}
	if override.Module != "" {
		o.Module = override.Module
	}
	if override.JSX != "" {
		o.JSX = override.JSX
	}
	if override.BaseURL != "" {
		o.BaseURL = override.BaseURL
	}
	if len(override.Paths) > 0 {
		o.Paths = override.Paths
	}
	return o
}

const maxExtendsDepth = 8

// readCompilerOptions reads compilerOptions from a tsconfig file, following
// a relative "extends" chain. The file is JSON with comments and trailing
// commas, which the TypeScript grammar accepts as an object expression.
func (w *Workspace) readCompilerOptions(path string, depth int) (CompilerOptions, error) {
	var opts CompilerOptions
	if depth > maxExtendsDepth {
		return opts, fmt.Errorf("tsconfig extends chain too deep at %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := w.evaluateJSONC(path, content)
	if err != nil {
		return opts, err
	}

	dir := filepath.Dir(path)

	if parent, ok := doc["extends"].(string); ok && strings.HasPrefix(parent, ".") {
		parentPath := filepath.Join(dir, parent)
		if !strings.HasSuffix(parentPath, ".json") {
			parentPath += ".json"
		}
		if exists(parentPath) {
			base, err := w.readCompilerOptions(parentPath, depth+1)
			if err != nil {
				return opts, err
			}
			opts = base
		}
	}

	co, _ := doc["compilerOptions"].(map[string]interface{})
	if co == nil {
		return opts, nil
	}

	override := CompilerOptions{
		Target: stringField(co, "target"),
		Module: stringField(co, "module"),
		JSX:    stringField(co, "jsx"),
	}
	baseDir := dir
	if baseURL := stringField(co, "baseUrl"); baseURL != "" {
		baseDir = filepath.Join(dir, baseURL)
		override.BaseURL = baseDir
	}

	if paths, ok := co["paths"].(map[string]interface{}); ok {
		override.Paths = make(map[string][]string, len(paths))
		for pattern, raw := range paths {
			targets, _ := raw.([]interface{})
			for _, t := range targets {
				if s, ok := t.(string); ok {
					override.Paths[pattern] = append(override.Paths[pattern], filepath.Join(baseDir, s))
				}
			}
		}
	}

	return opts.Merge(override), nil
}

// evaluateJSONC parses a JSON-with-comments document into a map.
func (w *Workspace) evaluateJSONC(path string, content []byte) (map[string]interface{}, error) {
	wrapped := make([]byte, 0, len(content)+3)
	wrapped = append(wrapped, '(')
	wrapped = append(wrapped, content...)
	wrapped = append(wrapped, '\n', ')')

	parsed, err := w.parser.Parse(path+".ts", wrapped)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	defer parsed.Close()

	root := parsed.RootNode
	if root.NamedChildCount() == 0 || root.NamedChild(0).Type() != "expression_statement" {
		return nil, fmt.Errorf("invalid compiler configuration %s: expected an object", path)
	}
	stmt := root.NamedChild(0)
	if stmt.NamedChildCount() == 0 {
		return nil, fmt.Errorf("invalid compiler configuration %s: expected an object", path)
	}

	f := &SourceFile{Path: path, Parsed: parsed}
	e := &evaluator{w: w, file: f}
	v, ok := e.eval(stmt.NamedChild(0))
	doc, isMap := v.(map[string]interface{})
	if !ok || !isMap {
		return nil, fmt.Errorf("invalid compiler configuration %s: expected an object", path)
	}
	return doc, nil
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}
