// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package plugins

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2spec/plugopts/internal/workspace"
)

func TestParsePlugins_NoDirectories(t *testing.T) {
	root := t.TempDir()

	_, err := ParsePlugins(context.Background(), root, Options{})
	require.ErrorIs(t, err, ErrNoPluginDirs)
	assert.Contains(t, err.Error(), filepath.Join(root, DefaultVencordDir))
	assert.Contains(t, err.Error(), filepath.Join(root, DefaultEquicordDir))
}

func TestParsePlugins_SingleTree(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/plugins/foo/index.ts": `definePlugin({ name: "Foo" });`,
	})

	parsed, err := ParsePlugins(context.Background(), root, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"Foo"}, parsed.VencordPlugins.Names())
	assert.NotNil(t, parsed.EquicordPlugins)
	assert.Empty(t, parsed.EquicordPlugins)
}

func TestParsePlugins_LogsWorkspace(t *testing.T) {
	root := writeTree(t, map[string]string{
		"tsconfig.json":            `{ "compilerOptions": { "baseUrl": "." } }`,
		workspace.TypesFile:        optionTypeSource,
		"src/plugins/foo/index.ts": `definePlugin({ name: "Foo" });`,
	})

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	_, err := ParsePlugins(context.Background(), root, opts)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Loaded compiler configuration")
	assert.Contains(t, out, "tsconfig.json")
	assert.Contains(t, out, "Loaded workspace")
	assert.Contains(t, out, "files=1")
	assert.Contains(t, out, "Extracted plugins")
}

func TestParsePlugins_CustomDirectories(t *testing.T) {
	root := writeTree(t, map[string]string{
		"shared/foo/index.ts": `definePlugin({ name: "Foo" });`,
		"fork/bar/index.ts":   `definePlugin({ name: "Bar" });`,
	})

	parsed, err := ParsePlugins(context.Background(), root, Options{VencordDir: "shared", EquicordDir: "fork"})
	require.NoError(t, err)

	assert.Contains(t, parsed.VencordPlugins, "Foo")
	assert.Contains(t, parsed.EquicordPlugins, "Bar")
}

func TestParsePlugins_EndToEnd(t *testing.T) {
	vencordRoot := writeTree(t, map[string]string{
		workspace.TypesFile:                 optionTypeSource,
		"src/plugins/typingTweaks/index.ts": typingTweaksSource,
		"src/plugins/oneko/index.ts":        `definePlugin({ name: "oneko", description: "cat" });`,
		"src/plugins/lonely/index.ts":       `definePlugin({ name: "Lonely" });`,
	})
	equicordRoot := writeTree(t, map[string]string{
		workspace.TypesFile:                        optionTypeSource,
		"src/plugins/typingTweaks/index.ts":        typingTweaksSource,
		"src/equicordplugins/cursorBuddy/index.ts": `definePlugin({ name: "CursorBuddy", description: "better cat" });`,
		"src/equicordplugins/forkOnly/index.ts":    `definePlugin({ name: "ForkOnly" });`,
	})

	vencord, err := ParsePlugins(context.Background(), vencordRoot, DefaultOptions())
	require.NoError(t, err)
	equicord, err := ParsePlugins(context.Background(), equicordRoot, DefaultOptions())
	require.NoError(t, err)

	result := Categorize(vencord, &equicord)

	assert.ElementsMatch(t, []string{"TypingTweaks", "oneko"}, result.Generic.Names())
	assert.Equal(t, "better cat", result.Generic["oneko"].DescriptionOr(""))
	assert.Equal(t, []string{"Lonely"}, result.VencordOnly.Names())
	assert.Equal(t, []string{"ForkOnly"}, result.EquicordOnly.Names())
	assert.Equal(t, 4, result.Total())
}
