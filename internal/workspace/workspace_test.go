// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package workspace

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// constNode returns the initializer of a top-level constant in f.
func constNode(t *testing.T, f *SourceFile, name string) *sitter.Node {
	t.Helper()

	node, ok := f.Parsed.Constants[name]
	require.True(t, ok, "constant %s not declared", name)
	return node
}

func evalConst(t *testing.T, w *Workspace, f *SourceFile, name string) (interface{}, bool) {
	t.Helper()
	return w.Evaluate(f, constNode(t, f, name))
}

func TestLoad_Defaults(t *testing.T) {
	root := t.TempDir()

	w, err := Load(root)
	require.NoError(t, err)

	assert.False(t, w.HasConfig())
	assert.Empty(t, w.ConfigPath())
	assert.Equal(t, DefaultCompilerOptions(), w.options)
	assert.Equal(t, 0, w.FileCount())
}

func TestLoad_CompilerOptions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tsconfig.base.json", `{
  "compilerOptions": { "target": "ESNext" }
}`)
	writeFile(t, root, ConfigFileName, `{
  // comments and trailing commas are allowed
  "extends": "./tsconfig.base.json",
  "compilerOptions": {
    "jsx": "preserve",
    "baseUrl": ".",
    "paths": {
      "@utils/*": ["./src/utils/*"],
      "@api": ["./src/api/index"],
    },
  },
  "include": ["src/**/*"],
}`)

	w, err := Load(root)
	require.NoError(t, err)

	opts := w.options
	assert.True(t, w.HasConfig())
	assert.Equal(t, "ESNext", opts.Target)
	assert.Equal(t, "ESNext", opts.Module)
	assert.Equal(t, "preserve", opts.JSX)
	assert.True(t, opts.AllowJS)
	assert.Equal(t, w.Root(), opts.BaseURL)
	assert.Equal(t, []string{filepath.Join(w.Root(), "src", "utils", "*")}, opts.Paths["@utils/*"])
}

func TestLoad_InvalidConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ConfigFileName, `["not", "an", "object"]`)

	_, err := Load(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid compiler configuration")
}

func TestLoad_AuxiliaryFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, TypesFile, `
export const enum OptionType {
  STRING,
  NUMBER,
  BIGINT,
  BOOLEAN,
  SELECT,
  SLIDER,
  COMPONENT,
  CUSTOM,
}
`)
	writeFile(t, root, EnumsDir+"/activity.ts", `
export const enum ActivityType {
  PLAYING = 0,
  STREAMING = 1,
  LISTENING = 2,
  WATCHING = 3,
  CUSTOM_STATUS = 4,
  COMPETING = 5,
}
`)
	writeFile(t, root, EnumsDir+"/nested/channel.ts", `
export enum ChannelType { GUILD_TEXT = 0, DM = 1 }
`)
	writeFile(t, root, ThemesHelperFile, `export const themes = { DarkPlus: "dark-plus" };`)

	w, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, 4, w.FileCount())

	optionType, ok := w.enums["OptionType"]
	require.True(t, ok)
	assert.Equal(t, 4.0, optionType["SELECT"])

	activity, ok := w.enums["ActivityType"]
	require.True(t, ok)
	assert.Equal(t, 3.0, activity["WATCHING"])

	_, ok = w.enums["ChannelType"]
	assert.True(t, ok)

	themes, ok := w.File(filepath.Join(root, ThemesHelperFile))
	require.True(t, ok)
	v, ok := themes.values["themes"]
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"DarkPlus": "dark-plus"}, v)
}

func TestAddFile_Caches(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "src/plugins/a/index.ts", `export const x = 1;`)

	w, err := Load(root)
	require.NoError(t, err)

	first, err := w.AddFile(path)
	require.NoError(t, err)
	second, err := w.AddFile(path)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, w.FileCount())

	_, err = w.AddFile(filepath.Join(root, "missing.ts"))
	assert.Error(t, err)
}

func TestAddFile_Concurrent(t *testing.T) {
	root := t.TempDir()
	var paths []string
	for _, name := range []string{"a", "b", "c", "d"} {
		paths = append(paths, writeFile(t, root, "src/plugins/"+name+"/index.ts", `export const n = "`+name+`";`))
	}

	w, err := Load(root)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			f, err := w.AddFile(path)
			assert.NoError(t, err)
			assert.NotNil(t, f)
		}(paths[i%len(paths)])
	}
	wg.Wait()

	assert.Equal(t, len(paths), w.FileCount())
}

func TestEvaluate_Literals(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "values.ts", `
const str = "hello";
const num = 1_000;
const hex = 0xff;
const neg = -2.5;
const yes = true;
const nothing = null;
const arr = [1, "two", false];
const obj = { a: 1, "b": [2], nested: { c: "d" } };
const sum = 2 + 3 * 4;
const concat = "v" + 1;
const tmpl = `+"`${str}, world`"+`;
const ref = str;
const fallback = undefined ?? "dflt";
const spread = { ...obj, a: 9 };
const flags = 1 << 3 | 1;
const member = obj.nested.c;
const index = arr[1];
const asConst = ["x"] as const;
const dynamic = Date.now();
const fn = () => 1;
`)

	w, err := Load(root)
	require.NoError(t, err)
	f, err := w.AddFile(path)
	require.NoError(t, err)

	tests := []struct {
		name   string
		want   interface{}
		wantOK bool
	}{
		{"str", "hello", true},
		{"num", 1000.0, true},
		{"hex", 255.0, true},
		{"neg", -2.5, true},
		{"yes", true, true},
		{"nothing", nil, true},
		{"arr", []interface{}{1.0, "two", false}, true},
		{"sum", 14.0, true},
		{"concat", "v1", true},
		{"tmpl", "hello, world", true},
		{"ref", "hello", true},
		{"fallback", "dflt", true},
		{"flags", 9.0, true},
		{"member", "d", true},
		{"index", "two", true},
		{"asConst", []interface{}{"x"}, true},
		{"dynamic", nil, false},
		{"fn", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := evalConst(t, w, f, tt.name)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}

	obj, ok := evalConst(t, w, f, "obj")
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{
		"a":      1.0,
		"b":      []interface{}{2.0},
		"nested": map[string]interface{}{"c": "d"},
	}, obj)

	spread, ok := evalConst(t, w, f, "spread")
	require.True(t, ok)
	assert.Equal(t, 9.0, spread.(map[string]interface{})["a"])
}

func TestEvaluate_CyclicConstants(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "cycle.ts", `
const a = b;
const b = a;
`)

	w, err := Load(root)
	require.NoError(t, err)
	f, err := w.AddFile(path)
	require.NoError(t, err)

	_, ok := evalConst(t, w, f, "a")
	assert.False(t, ok)
}

func TestEvaluate_Enums(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, EnumsDir+"/status.ts", `
export const enum StatusType {
  ONLINE = "online",
  IDLE = "idle",
}
`)
	path := writeFile(t, root, "src/plugins/status/index.ts", `
enum Mode { A = 2, B, C = "c", D = A + B }
const local = Mode.B;
const derived = Mode.D;
const global = StatusType.IDLE;
const unknown = Missing.X;
`)

	w, err := Load(root)
	require.NoError(t, err)
	f, err := w.AddFile(path)
	require.NoError(t, err)

	members, ok := f.enums["Mode"]
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"A": 2.0, "B": 3.0, "C": "c", "D": 5.0}, members)

	v, ok := evalConst(t, w, f, "local")
	require.True(t, ok)
	assert.Equal(t, 3.0, v)

	v, ok = evalConst(t, w, f, "derived")
	require.True(t, ok)
	assert.Equal(t, 5.0, v)

	v, ok = evalConst(t, w, f, "global")
	require.True(t, ok)
	assert.Equal(t, "idle", v)

	_, ok = evalConst(t, w, f, "unknown")
	assert.False(t, ok)
}

func TestEvaluate_Imports(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ConfigFileName, `{
  "compilerOptions": {
    "baseUrl": "./src",
    "paths": { "@shared/*": ["./shared/*"] }
  }
}`)
	constsPath := writeFile(t, root, "src/shared/consts.ts", `
export const GREETING = "hi";
export enum Level { Low = 1, High = 2 }
`)
	settingsPath := writeFile(t, root, "src/plugins/p/settings.ts", `export const LIMIT = 10;`)
	notLoaded := writeFile(t, root, "src/plugins/p/unloaded.ts", `export const NEVER = 1;`)
	path := writeFile(t, root, "src/plugins/p/index.ts", `
import { GREETING as hello, Level } from "@shared/consts";
import * as S from "./settings";
import { NEVER } from "./unloaded";
const a = hello;
const b = Level.High;
const c = S.LIMIT * 2;
const d = NEVER;
`)

	w, err := Load(root)
	require.NoError(t, err)

	_, err = w.AddFile(constsPath)
	require.NoError(t, err)
	_, err = w.AddFile(settingsPath)
	require.NoError(t, err)

	consts, ok := w.loadedImport(path, "@shared/consts")
	require.True(t, ok)
	assert.Equal(t, constsPath, consts.Path)

	_, ok = w.loadedImport(path, "./unloaded")
	assert.False(t, ok, "%s exists but was never added", notLoaded)

	_, ok = w.loadedImport(path, "./nope")
	assert.False(t, ok)
	f, err := w.AddFile(path)
	require.NoError(t, err)

	v, ok := evalConst(t, w, f, "a")
	require.True(t, ok)
	assert.Equal(t, "hi", v)

	v, ok = evalConst(t, w, f, "b")
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	v, ok = evalConst(t, w, f, "c")
	require.True(t, ok)
	assert.Equal(t, 20.0, v)

	_, ok = evalConst(t, w, f, "d")
	assert.False(t, ok, "imports of files that were never added are not followed")
}

func TestResolveNode(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "r.ts", `
const inner = { a: 1 };
const outer = inner;
const call = make();
`)

	w, err := Load(root)
	require.NoError(t, err)
	f, err := w.AddFile(path)
	require.NoError(t, err)

	assert.Equal(t, "object", w.ResolveNode(f, constNode(t, f, "outer")).Type())
	assert.Equal(t, "call_expression", w.ResolveNode(f, constNode(t, f, "call")).Type())
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "10", FormatNumber(10))
	assert.Equal(t, "-3", FormatNumber(-3))
	assert.Equal(t, "0.5", FormatNumber(0.5))
}
