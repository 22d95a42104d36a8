// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package plugins

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/api2spec/plugopts/internal/workspace"
	"github.com/api2spec/plugopts/pkg/types"
)

// Conventional plugin directories relative to a source root.
const (
	DefaultVencordDir  = "src/plugins"
	DefaultEquicordDir = "src/equicordplugins"
)

// ErrNoPluginDirs is returned when a source root has neither plugin
// directory.
var ErrNoPluginDirs = errors.New("no plugins directories found")

// Options configures ParsePlugins.
type Options struct {
	// VencordDir is the shared plugin directory relative to the source root
	VencordDir string

	// EquicordDir is the fork-only plugin directory relative to the source root
	EquicordDir string

	Concurrency int
	Logger      *log.Logger
	Interactive bool
}

// DefaultOptions returns the conventional directory layout.
func DefaultOptions() Options {
	return Options{
		VencordDir:  DefaultVencordDir,
		EquicordDir: DefaultEquicordDir,
		Concurrency: DefaultConcurrency,
	}
}

// ParsePlugins extracts the plugins of both plugin directories under
// sourcePath. A missing directory yields an empty mapping; missing both is
// ErrNoPluginDirs.
func ParsePlugins(ctx context.Context, sourcePath string, opts Options) (types.ParsedPlugins, error) {
	if opts.VencordDir == "" {
		opts.VencordDir = DefaultVencordDir
	}
	if opts.EquicordDir == "" {
		opts.EquicordDir = DefaultEquicordDir
	}

	vencordPath := filepath.Join(sourcePath, opts.VencordDir)
	equicordPath := filepath.Join(sourcePath, opts.EquicordDir)
	hasVencord, hasEquicord := dirExists(vencordPath), dirExists(equicordPath)

	if !hasVencord && !hasEquicord {
		return types.ParsedPlugins{}, fmt.Errorf("%w, expected one of:\n  - %s\n  - %s",
			ErrNoPluginDirs, vencordPath, equicordPath)
	}

	ws, err := workspace.Load(sourcePath)
	if err != nil {
		return types.ParsedPlugins{}, fmt.Errorf("failed to load workspace: %w", err)
	}

	driver := &Driver{
		Extractor:   NewExtractor(ws),
		Concurrency: opts.Concurrency,
		Logger:      opts.Logger,
		Interactive: opts.Interactive,
	}

	logger := driver.logger()
	if ws.HasConfig() {
		logger.Debug("Loaded compiler configuration", "path", ws.ConfigPath())
	}
	logger.Debug("Loaded workspace", "root", ws.Root(), "files", ws.FileCount())

	result := types.ParsedPlugins{
		VencordPlugins:  types.PluginMapping{},
		EquicordPlugins: types.PluginMapping{},
	}

	if hasVencord {
		if result.VencordPlugins, err = driver.ExtractAll(ctx, vencordPath); err != nil {
			return types.ParsedPlugins{}, err
		}
	}
	if hasEquicord {
		if result.EquicordPlugins, err = driver.ExtractAll(ctx, equicordPath); err != nil {
			return types.ParsedPlugins{}, err
		}
	}

	return result, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
