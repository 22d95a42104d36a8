// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package plugins

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/api2spec/plugopts/pkg/types"
)

func record(name, dir string) types.PluginRecord {
	return types.PluginRecord{
		Name:          name,
		DirectoryName: dir,
		Settings:      map[string]types.SettingDescriptor{},
	}
}

func described(r types.PluginRecord, desc string) types.PluginRecord {
	r.Description = &desc
	return r
}

func TestCategorize_NoSecondTree(t *testing.T) {
	foo := record("Foo", "foo")
	vencord := types.ParsedPlugins{VencordPlugins: types.PluginMapping{"Foo": foo}}

	result := Categorize(vencord, nil)

	assert.Empty(t, result.Generic)
	assert.Equal(t, types.PluginMapping{"Foo": foo}, result.VencordOnly)
	assert.Empty(t, result.EquicordOnly)
	assert.NotNil(t, result.Generic)
	assert.NotNil(t, result.EquicordOnly)
}

func TestCategorize_ExactMatchPrefersSecondTree(t *testing.T) {
	vencord := types.ParsedPlugins{VencordPlugins: types.PluginMapping{
		"Foo": described(record("Foo", "foo"), "first"),
	}}
	equicord := &types.ParsedPlugins{VencordPlugins: types.PluginMapping{
		"Foo": described(record("Foo", "foo"), "second"),
	}}

	result := Categorize(vencord, equicord)

	require.Contains(t, result.Generic, "Foo")
	assert.Equal(t, "second", result.Generic["Foo"].DescriptionOr(""))
	assert.Empty(t, result.VencordOnly)
}

func TestCategorize_RenameTable(t *testing.T) {
	cursorBuddy := described(record("CursorBuddy", "cursorBuddy"), "a cat")
	vencord := types.ParsedPlugins{VencordPlugins: types.PluginMapping{
		"oneko": record("oneko", "oneko"),
	}}
	equicord := &types.ParsedPlugins{
		VencordPlugins: types.PluginMapping{},
		EquicordPlugins: types.PluginMapping{
			"CursorBuddy": cursorBuddy,
			"Other":       record("Other", "other"),
		},
	}

	result := Categorize(vencord, equicord)

	assert.Equal(t, types.PluginMapping{"oneko": cursorBuddy}, result.Generic)
	assert.Empty(t, result.VencordOnly)
	assert.NotContains(t, result.EquicordOnly, "CursorBuddy")
	assert.Contains(t, result.EquicordOnly, "Other")
}

func TestCategorize_RenameTableFallsBackToSharedBucket(t *testing.T) {
	cursorBuddy := record("CursorBuddy", "oneko")
	vencord := types.ParsedPlugins{VencordPlugins: types.PluginMapping{
		"oneko": record("oneko", "oneko"),
	}}
	equicord := &types.ParsedPlugins{VencordPlugins: types.PluginMapping{"CursorBuddy": cursorBuddy}}

	result := Categorize(vencord, equicord)

	assert.Equal(t, types.PluginMapping{"oneko": cursorBuddy}, result.Generic)
}

func TestCategorize_DirectorySlugIsCaseInsensitive(t *testing.T) {
	theirs := record("StatusEverywhereRenamed", "statuseverywhere")
	vencord := types.ParsedPlugins{VencordPlugins: types.PluginMapping{
		"StatusEverywhere": record("StatusEverywhere", "StatusEverywhere"),
	}}
	equicord := &types.ParsedPlugins{VencordPlugins: types.PluginMapping{
		"StatusEverywhereRenamed": theirs,
	}}

	result := Categorize(vencord, equicord)

	assert.Equal(t, types.PluginMapping{"StatusEverywhere": theirs}, result.Generic)
	assert.Empty(t, result.VencordOnly)
}

func TestCategorize_SlugMatchIgnoresForkOnlyBucket(t *testing.T) {
	vencord := types.ParsedPlugins{VencordPlugins: types.PluginMapping{
		"Foo": record("Foo", "foo"),
	}}
	equicord := &types.ParsedPlugins{EquicordPlugins: types.PluginMapping{
		"FooFork": record("FooFork", "foo"),
	}}

	result := Categorize(vencord, equicord)

	assert.Contains(t, result.VencordOnly, "Foo")
	assert.Contains(t, result.EquicordOnly, "FooFork")
}

func TestCategorize_SlugCollisionPicksFirstName(t *testing.T) {
	vencord := types.ParsedPlugins{VencordPlugins: types.PluginMapping{
		"Mine": record("Mine", "shared"),
	}}
	equicord := &types.ParsedPlugins{VencordPlugins: types.PluginMapping{
		"Beta":  record("Beta", "Shared"),
		"Alpha": record("Alpha", "SHARED"),
	}}

	for i := 0; i < 10; i++ {
		result := Categorize(vencord, equicord)
		require.Contains(t, result.Generic, "Mine")
		assert.Equal(t, "Alpha", result.Generic["Mine"].Name)
	}
}

func TestCategorize_Properties(t *testing.T) {
	pool := []string{"Foo", "Bar", "Baz", "Qux", "oneko", "CursorBuddy", "Typing", "Status"}

	genMapping := func(t *rapid.T, label string) types.PluginMapping {
		names := rapid.SliceOfNDistinct(rapid.SampledFrom(pool), 0, len(pool), rapid.ID[string]).Draw(t, label)
		mapping := make(types.PluginMapping, len(names))
		for _, name := range names {
			dir := name
			if rapid.Bool().Draw(t, label+"-upper-"+name) {
				dir = strings.ToUpper(name)
			}
			mapping[name] = record(name, dir)
		}
		return mapping
	}

	rapid.Check(t, func(t *rapid.T) {
		first := genMapping(t, "first")
		shared := genMapping(t, "shared")
		only := genMapping(t, "only")

		result := Categorize(
			types.ParsedPlugins{VencordPlugins: first},
			&types.ParsedPlugins{VencordPlugins: shared, EquicordPlugins: only},
		)

		if len(result.Generic)+len(result.VencordOnly) != len(first) {
			t.Fatalf("generic %d + vencordOnly %d != first %d",
				len(result.Generic), len(result.VencordOnly), len(first))
		}

		for name := range first {
			_, inGeneric := result.Generic[name]
			_, inFirstOnly := result.VencordOnly[name]
			if inGeneric == inFirstOnly {
				t.Fatalf("%s must be in exactly one of generic and vencordOnly", name)
			}
		}

		matched := make(map[string]bool)
		for _, r := range result.Generic {
			matched[r.Name] = true
		}

		for name := range result.EquicordOnly {
			if _, ok := only[name]; !ok {
				t.Fatalf("%s in equicordOnly but not in the fork-only input", name)
			}
			if matched[name] {
				t.Fatalf("%s is both matched and fork-only", name)
			}
		}

		for name := range only {
			if !matched[name] {
				if _, ok := result.EquicordOnly[name]; !ok {
					t.Fatalf("unmatched fork-only plugin %s was dropped", name)
				}
			}
		}

		again := Categorize(
			types.ParsedPlugins{VencordPlugins: first},
			&types.ParsedPlugins{VencordPlugins: shared, EquicordPlugins: only},
		)
		if !assert.ObjectsAreEqual(result, again) {
			t.Fatalf("categorize is not deterministic")
		}
	})
}
