// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package plugins

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/api2spec/plugopts/internal/schema"
	"github.com/api2spec/plugopts/internal/util"
	"github.com/api2spec/plugopts/internal/workspace"
	"github.com/api2spec/plugopts/pkg/types"
)

// Analyzer is the analysis context shared by all extractions.
// *workspace.Workspace implements it.
type Analyzer interface {
	schema.Resolver
	AddFile(path string) (*workspace.SourceFile, error)
}

// Extractor turns one plugin directory into a plugin record.
type Extractor struct {
	analyzer Analyzer
}

// NewExtractor creates an extractor backed by analyzer.
func NewExtractor(analyzer Analyzer) *Extractor {
	return &Extractor{analyzer: analyzer}
}

// Extract reads the plugin in dir, whose directory slug is slug. Missing
// structure yields a skipped result; an error means a file that exists could
// not be loaded.
func (e *Extractor) Extract(ctx context.Context, slug, dir string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return Result{}, err
	}

	entryPath, ok := findEntryFile(dir)
	if !ok {
		return Skipped(SkipNoEntryFile), nil
	}

	entry, err := e.analyzer.AddFile(entryPath)
	if err != nil {
		return Result{}, err
	}

	info := schema.ExtractPluginInfo(e.analyzer, entry)

	var name string
	if info.Name != nil {
		name = *info.Name
	} else {
		name = util.DerivePluginName(slug)
	}
	if name == "" {
		return Skipped(SkipNoName), nil
	}

	settings, err := e.extractSettings(entry, dir)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Record: types.PluginRecord{
			Name:          name,
			DirectoryName: slug,
			Description:   info.Description,
			Settings:      settings,
		},
	}, nil
}

// extractSettings looks for the settings declaration in the entry file,
// then in a sibling settings file. No declaration yields an empty mapping.
func (e *Extractor) extractSettings(entry *workspace.SourceFile, dir string) (map[string]types.SettingDescriptor, error) {
	p := e.analyzer.Parser()

	file := entry
	call, found := schema.FindSettingsDeclaration(p, entry)
	if !found {
		siblingPath := filepath.Join(dir, SettingsFileName)
		if siblingPath != entry.Path && fileExists(siblingPath) {
			sibling, err := e.analyzer.AddFile(siblingPath)
			if err != nil {
				return nil, err
			}
			call, found = schema.FindSettingsDeclaration(p, sibling)
			file = sibling
		}
	}

	if !found {
		return make(map[string]types.SettingDescriptor), nil
	}
	return schema.ExtractSettings(e.analyzer, file, call), nil
}

func findEntryFile(dir string) (string, bool) {
	for _, candidate := range EntryFileCandidates {
		path := filepath.Join(dir, candidate)
		if fileExists(path) {
			return path, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return !errors.Is(err, os.ErrNotExist)
	}
	return !info.IsDir()
}
