// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package plugins

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2spec/plugopts/internal/workspace"
	"github.com/api2spec/plugopts/pkg/types"
)

const optionTypeSource = `
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

export default function definePlugin<P>(p: P) {
    return p;
}
`

const typingTweaksSource = `
import definePlugin, { OptionType } from "@utils/types";
import { definePluginSettings } from "@api/Settings";

const settings = definePluginSettings({
    showAvatars: {
        type: OptionType.BOOLEAN,
        default: true,
        description: "Show avatars in the typing indicator",
    },
    mode: {
        type: OptionType.SELECT,
        description: "Mode",
        options: [
            { label: "Fast", value: "fast" },
            { label: "Slow", value: "slow", default: true },
        ],
    },
    computed: {
        type: OptionType.STRING,
        description: "Computed",
        default: getDefault(),
    },
});

export default definePlugin({
    name: "TypingTweaks",
    description: "Improves the typing indicator",
    settings,
});
`

// writeTree writes files relative to a new temporary root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func newExtractor(t *testing.T, root string) *Extractor {
	t.Helper()

	ws, err := workspace.Load(root)
	require.NoError(t, err)
	return NewExtractor(ws)
}

func TestExtractor_InlineSettings(t *testing.T) {
	root := writeTree(t, map[string]string{
		workspace.TypesFile:                 optionTypeSource,
		"src/plugins/typingTweaks/index.ts": typingTweaksSource,
	})

	res, err := newExtractor(t, root).Extract(context.Background(), "typingTweaks",
		filepath.Join(root, "src/plugins/typingTweaks"))
	require.NoError(t, err)
	require.True(t, res.OK())

	rec := res.Record
	assert.Equal(t, "TypingTweaks", rec.Name)
	assert.Equal(t, "typingTweaks", rec.DirectoryName)
	require.NotNil(t, rec.Description)
	assert.Equal(t, "Improves the typing indicator", *rec.Description)

	require.Len(t, rec.Settings, 3)
	assert.Equal(t, types.SettingDescriptor{
		Type:        "boolean",
		Description: "Show avatars in the typing indicator",
		Default:     true,
	}, rec.Settings["showAvatars"])

	mode := rec.Settings["mode"]
	assert.Equal(t, "select", mode.Type)
	assert.Equal(t, "slow", mode.Default)
	assert.Len(t, mode.Options, 2)

	assert.Equal(t, types.ComputedDefault, rec.Settings["computed"].Default)
}

func TestExtractor_DerivedNameAndNoSettings(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/plugins/typing-tweaks/index.tsx": `
export default definePlugin({
    authors: [],
    start() {},
});
`,
	})

	res, err := newExtractor(t, root).Extract(context.Background(), "typing-tweaks",
		filepath.Join(root, "src/plugins/typing-tweaks"))
	require.NoError(t, err)
	require.True(t, res.OK())

	assert.Equal(t, "TypingTweaks", res.Record.Name)
	assert.Nil(t, res.Record.Description)
	assert.NotNil(t, res.Record.Settings)
	assert.Empty(t, res.Record.Settings)
}

func TestExtractor_SiblingSettingsFile(t *testing.T) {
	root := writeTree(t, map[string]string{
		workspace.TypesFile: optionTypeSource,
		"src/plugins/split/index.tsx": `
import { settings } from "./settings";
export default definePlugin({ name: "Split", settings });
`,
		"src/plugins/split/settings.ts": `
import { OptionType } from "@utils/types";
export const settings = definePluginSettings({
    enabled: { type: OptionType.BOOLEAN, default: false, restartNeeded: true },
});
`,
	})

	res, err := newExtractor(t, root).Extract(context.Background(), "split",
		filepath.Join(root, "src/plugins/split"))
	require.NoError(t, err)
	require.True(t, res.OK())

	assert.Equal(t, map[string]types.SettingDescriptor{
		"enabled": {Type: "boolean", Default: false, RestartNeeded: true},
	}, res.Record.Settings)
}

func TestExtractor_EntryFilePrecedence(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/plugins/p/index.tsx":   `export default definePlugin({ name: "FromTsx" });`,
		"src/plugins/p/index.ts":    `export default definePlugin({ name: "FromTs" });`,
		"src/plugins/q/settings.ts": `export default definePlugin({ name: "FromSettings" });`,
	})
	e := newExtractor(t, root)

	res, err := e.Extract(context.Background(), "p", filepath.Join(root, "src/plugins/p"))
	require.NoError(t, err)
	assert.Equal(t, "FromTsx", res.Record.Name)

	res, err = e.Extract(context.Background(), "q", filepath.Join(root, "src/plugins/q"))
	require.NoError(t, err)
	assert.Equal(t, "FromSettings", res.Record.Name)
}

func TestExtractor_Skips(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/plugins/noEntry/helpers.ts": `export const x = 1;`,
		"src/plugins/-_-/index.ts":       `export const x = 1;`,
		"src/plugins/blankName/index.ts": `export default definePlugin({ name: "" });`,
	})
	e := newExtractor(t, root)

	res, err := e.Extract(context.Background(), "noEntry", filepath.Join(root, "src/plugins/noEntry"))
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, SkipNoEntryFile, res.Skip)

	res, err = e.Extract(context.Background(), "-_-", filepath.Join(root, "src/plugins/-_-"))
	require.NoError(t, err)
	assert.Equal(t, SkipNoName, res.Skip)
	assert.Equal(t, "no plugin name", res.Skip.String())

	res, err = e.Extract(context.Background(), "blankName", filepath.Join(root, "src/plugins/blankName"))
	require.NoError(t, err)
	assert.Equal(t, SkipNoName, res.Skip, "an empty declared name is not replaced by the derived one")
}

func TestExtractor_Canceled(t *testing.T) {
	root := writeTree(t, map[string]string{"src/plugins/a/index.ts": `definePlugin({ name: "A" });`})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newExtractor(t, root).Extract(ctx, "a", filepath.Join(root, "src/plugins/a"))
	assert.ErrorIs(t, err, context.Canceled)
}
