// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2spec/plugopts/internal/workspace"
	"github.com/api2spec/plugopts/pkg/types"
)

const typesSource = `
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
`

// loadSource writes source as a plugin entry file next to the shared types
// and returns the workspace and the registered file.
func loadSource(t *testing.T, source string) (*workspace.Workspace, *workspace.SourceFile) {
	t.Helper()

	root := t.TempDir()
	write := func(rel, content string) string {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	write(workspace.TypesFile, typesSource)
	write(workspace.EnumsDir+"/activity.ts", `export const enum ActivityType { PLAYING = 0, STREAMING = 1, LISTENING = 2 }`)
	entry := write("src/plugins/test/index.ts", source)

	ws, err := workspace.Load(root)
	require.NoError(t, err)
	f, err := ws.AddFile(entry)
	require.NoError(t, err)
	return ws, f
}

func extract(t *testing.T, source string) map[string]types.SettingDescriptor {
	t.Helper()

	ws, f := loadSource(t, source)
	call, ok := FindSettingsDeclaration(ws.Parser(), f)
	require.True(t, ok)
	return ExtractSettings(ws, f, call)
}

func TestExtractPluginInfo(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		wantName *string
		wantDesc *string
	}{
		{
			name:     "literal fields",
			source:   `export default definePlugin({ name: "Foo", description: "Does foo" });`,
			wantName: types.Target("Foo"),
			wantDesc: types.Target("Does foo"),
		},
		{
			name: "constant references",
			source: `
const NAME = "Bar";
export default definePlugin({ name: NAME, description: ` + "`${NAME} helper`" + ` });`,
			wantName: types.Target("Bar"),
			wantDesc: types.Target("Bar helper"),
		},
		{
			name:     "object bound to a constant",
			source:   `const plugin = { name: "Baz" }; export default definePlugin(plugin);`,
			wantName: types.Target("Baz"),
		},
		{
			name:     "generic call",
			source:   `export default definePlugin<Settings>({ name: "Typed" } as any);`,
			wantName: types.Target("Typed"),
		},
		{
			name:     "dynamic name",
			source:   `export default definePlugin({ name: getName(), description: "" });`,
			wantDesc: types.Target(""),
		},
		{
			name:     "empty declared name",
			source:   `export default definePlugin({ name: "" });`,
			wantName: types.Target(""),
		},
		{
			name:   "no definePlugin",
			source: `export const x = 1;`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, f := loadSource(t, tt.source)
			info := ExtractPluginInfo(ws, f)
			assert.Equal(t, tt.wantName, info.Name)
			assert.Equal(t, tt.wantDesc, info.Description)
		})
	}
}

func TestFindSettingsDeclaration(t *testing.T) {
	ws, f := loadSource(t, `const s = Other.definePluginSettings({});`)
	_, ok := FindSettingsDeclaration(ws.Parser(), f)
	assert.False(t, ok, "only the bare callee is recognized")

	ws, f = loadSource(t, `export const settings = definePluginSettings({});`)
	call, ok := FindSettingsDeclaration(ws.Parser(), f)
	require.True(t, ok)
	assert.Empty(t, ExtractSettings(ws, f, call))
	assert.NotNil(t, ExtractSettings(ws, f, nil))
}

func TestExtractSettings_Types(t *testing.T) {
	settings := extract(t, `
const settings = definePluginSettings({
    s: { type: OptionType.STRING },
    n: { type: OptionType.NUMBER },
    big: { type: OptionType.BIGINT },
    b: { type: OptionType.BOOLEAN },
    sel: { type: OptionType.SELECT, options: [] },
    sl: { type: OptionType.SLIDER, markers: [] },
    comp: { type: OptionType.COMPONENT, component: () => null },
    cust: { type: OptionType.CUSTOM, default: {} },
    ordinal: { type: 5 },
    unknown: { type: whatever },
});
`)

	want := map[string]string{
		"s":       "string",
		"n":       "number",
		"big":     "bigint",
		"b":       "boolean",
		"sel":     "select",
		"sl":      "slider",
		"comp":    "component",
		"cust":    "custom",
		"ordinal": "slider",
		"unknown": "",
	}
	for key, typ := range want {
		assert.Equal(t, typ, settings[key].Type, key)
	}
}

func TestExtractSettings_Fields(t *testing.T) {
	settings := extract(t, `
import { ActivityType } from "@vencord/discord-types/enums";

const DEFAULT_MESSAGE = "hello";
const statusSetting = {
    type: OptionType.STRING,
    description: "Status text",
    default: DEFAULT_MESSAGE + " world",
    placeholder: "Type here",
    restartNeeded: true,
    hidden: false,
};

export const settings = definePluginSettings({
    status: statusSetting,
    activity: {
        type: OptionType.SELECT,
        description: "Activity",
        options: [
            { label: "Playing", value: ActivityType.PLAYING, default: true },
            { label: "Listening", value: ActivityType.LISTENING },
            { label: "Dynamic", value: compute() },
        ],
    },
    volume: {
        type: OptionType.SLIDER,
        description: "Volume",
        markers: [0, 25, 50, 75, 100],
        default: 50,
        stickToMarkers: false,
    },
    callback: {
        type: OptionType.BOOLEAN,
        default: false,
        hidden: () => true,
        onChange: () => {},
    },
    computed: {
        type: OptionType.STRING,
        default: window.location.href,
    },
    nullish: {
        type: OptionType.STRING,
        default: null,
    },
    notAnObject: makeSetting(),
});
`)

	assert.Equal(t, types.SettingDescriptor{
		Type:          "string",
		Description:   "Status text",
		Default:       "hello world",
		Placeholder:   "Type here",
		RestartNeeded: true,
	}, settings["status"])

	activity := settings["activity"]
	assert.Equal(t, "select", activity.Type)
	assert.Equal(t, 0.0, activity.Default)
	assert.Equal(t, []types.SelectOption{
		{Label: "Playing", Value: 0.0, Default: true},
		{Label: "Listening", Value: 2.0},
		{Label: "Dynamic", Value: types.ComputedDefault},
	}, activity.Options)

	volume := settings["volume"]
	assert.Equal(t, []float64{0, 25, 50, 75, 100}, volume.Markers)
	assert.Equal(t, 50.0, volume.Default)
	assert.False(t, volume.StickToMarkers)

	callback := settings["callback"]
	assert.Equal(t, false, callback.Default)
	assert.False(t, callback.Hidden)

	assert.Equal(t, types.ComputedDefault, settings["computed"].Default)
	assert.Nil(t, settings["nullish"].Default)
	assert.Equal(t, "string", settings["nullish"].Type)

	assert.NotContains(t, settings, "notAnObject")
}

func TestExtractSettings_SettingsObjectConstant(t *testing.T) {
	settings := extract(t, `
const defs = {
    enabled: { type: OptionType.BOOLEAN, default: true },
};
export const settings = definePluginSettings(defs);
`)

	assert.Equal(t, map[string]types.SettingDescriptor{
		"enabled": {Type: "boolean", Default: true},
	}, settings)
}
