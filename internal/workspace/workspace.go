// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package workspace builds the shared analysis context used by the plugin
// extractors: parsed source files plus the symbol tables needed to resolve
// constant and enum values across files.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/api2spec/plugopts/internal/parser"
)

// Files the workspace ingests up front, relative to the source root. Loading
// the whole repository is far too slow, so only the declarations that
// setting defaults actually reference are pulled in.
const (
	// ConfigFileName is the compiler configuration looked up at the root
	ConfigFileName = "tsconfig.json"

	// TypesFile declares OptionType and the other shared plugin types
	TypesFile = "src/utils/types.ts"

	// EnumsDir holds the Discord enum declarations (ActivityType, ChannelType, ...)
	EnumsDir = "packages/discord-types/enums"

	// ThemesHelperFile builds theme URLs at runtime for shikiCodeblocks
	ThemesHelperFile = "src/plugins/shikiCodeblocks.desktop/api/themes.ts"
)

// SourceFile is a file registered in the workspace.
type SourceFile struct {
	// Path is the absolute file path
	Path string

	// Parsed is the parse result. Its tree must only be walked by the
	// goroutine that added the file.
	Parsed *parser.ParsedTSFile

	// values holds the evaluated top-level constants
	values map[string]interface{}

	// enums holds the evaluated enum members by enum name
	enums map[string]map[string]interface{}
}

// Root returns the file's root syntax node.
func (f *SourceFile) Root() *sitter.Node {
	return f.Parsed.RootNode
}

// Content returns the file's source bytes.
func (f *SourceFile) Content() []byte {
	return f.Parsed.Content
}

// Workspace is the analysis context shared by all extraction tasks.
//
// Adding files is serialized. Once a file is registered its evaluated
// symbol tables are immutable, so lookups from other goroutines never touch
// its syntax tree.
type Workspace struct {
	root       string
	configPath string
	options    CompilerOptions
	parser     *parser.TypeScriptParser

	mu    sync.RWMutex
	files map[string]*SourceFile

	// enums holds the enums declared in the preloaded auxiliary files,
	// by enum name
	enums map[string]map[string]interface{}
}

// Load builds a workspace rooted at root. It reads the compiler
// configuration when present and ingests the auxiliary files the extractors
// depend on. Dependencies are never followed automatically.
func Load(root string) (*Workspace, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	w := &Workspace{
		root:    absRoot,
		options: DefaultCompilerOptions(),
		parser:  parser.NewTypeScriptParser(),
		files:   make(map[string]*SourceFile),
		enums:   make(map[string]map[string]interface{}),
	}

	configPath := filepath.Join(absRoot, ConfigFileName)
	if exists(configPath) {
		opts, err := w.readCompilerOptions(configPath, 0)
		if err != nil {
			return nil, err
		}
		w.configPath = configPath
		w.options = w.options.Merge(opts)
	}

	auxFiles, err := w.auxiliaryFiles()
	if err != nil {
		return nil, err
	}
	for _, path := range auxFiles {
		if _, err := w.addFile(path, true); err != nil {
			return nil, err
		}
	}

	return w, nil
}

// auxiliaryFiles lists the curated allow-list of files loaded at startup.
func (w *Workspace) auxiliaryFiles() ([]string, error) {
	var files []string

	if path := filepath.Join(w.root, TypesFile); exists(path) {
		files = append(files, path)
	}

	enumsDir := filepath.Join(w.root, EnumsDir)
	if exists(enumsDir) {
		matches, err := doublestar.Glob(os.DirFS(enumsDir), "**/*.ts", doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to list enum declarations: %w", err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			files = append(files, filepath.Join(enumsDir, filepath.FromSlash(m)))
		}
	}

	if path := filepath.Join(w.root, ThemesHelperFile); exists(path) {
		files = append(files, path)
	}

	return files, nil
}

// Root returns the absolute workspace root.
func (w *Workspace) Root() string {
	return w.root
}

// ConfigPath returns the compiler configuration path, or "" when the root
// has none.
func (w *Workspace) ConfigPath() string {
	return w.configPath
}

// HasConfig reports whether a compiler configuration was found.
func (w *Workspace) HasConfig() bool {
	return w.configPath != ""
}

// Parser returns the parser shared by the workspace.
func (w *Workspace) Parser() *parser.TypeScriptParser {
	return w.parser
}

// FileCount returns the number of registered files.
func (w *Workspace) FileCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.files)
}

// File returns a registered file by path.
func (w *Workspace) File(path string) (*SourceFile, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	f, ok := w.files[abs]
	return f, ok
}

// AddFile parses and registers a file, returning the cached file when it was
// added before. A missing or unreadable file is an error.
func (w *Workspace) AddFile(path string) (*SourceFile, error) {
	return w.addFile(path, false)
}

func (w *Workspace) addFile(path string, aux bool) (*SourceFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	if f, ok := w.File(abs); ok {
		return f, nil
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file %s: %w", abs, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if f, ok := w.files[abs]; ok {
		return f, nil
	}

	parsed, err := w.parser.Parse(abs, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", abs, err)
	}

	f := &SourceFile{
		Path:   abs,
		Parsed: parsed,
		values: make(map[string]interface{}),
		enums:  make(map[string]map[string]interface{}),
	}
	w.index(f)

	w.files[abs] = f
	if aux {
		for name, members := range f.enums {
			if _, seen := w.enums[name]; !seen {
				w.enums[name] = members
			}
		}
	}

	return f, nil
}

// index evaluates the file's enums and constants. The caller holds the
// write lock.
func (w *Workspace) index(f *SourceFile) {
	e := &evaluator{w: w, file: f}

	for _, enum := range f.Parsed.Enums {
		if _, dup := f.enums[enum.Name]; dup {
			continue
		}
		f.enums[enum.Name] = e.enumMembers(enum)
	}

	names := make([]string, 0, len(f.Parsed.Constants))
	for name := range f.Parsed.Constants {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if v, ok := e.constant(name); ok {
			f.values[name] = v
		}
	}
}

// Evaluate statically evaluates an expression of file f. It reports false
// when the value cannot be determined without running code.
func (w *Workspace) Evaluate(f *SourceFile, node *sitter.Node) (interface{}, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	e := &evaluator{w: w, file: f}
	return e.eval(node)
}

// EvaluateString evaluates an expression that should produce a string.
func (w *Workspace) EvaluateString(f *SourceFile, node *sitter.Node) (string, bool) {
	v, ok := w.Evaluate(f, node)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ResolveNode follows identifiers bound to same-file constants until it
// reaches a non-identifier expression. Returns node unchanged otherwise.
func (w *Workspace) ResolveNode(f *SourceFile, node *sitter.Node) *sitter.Node {
	for i := 0; i < maxDepth; i++ {
		node = parser.UnwrapExpression(node)
		if node == nil || (node.Type() != "identifier" && node.Type() != "shorthand_property_identifier") {
			return node
		}
		decl, ok := f.Parsed.Constants[node.Content(f.Content())]
		if !ok {
			return node
		}
		node = decl
	}
	return node
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}
