// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package plugins

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/api2spec/plugopts/internal/scanner"
	"github.com/api2spec/plugopts/pkg/types"
)

const (
	// DefaultConcurrency is the number of plugins extracted at once
	DefaultConcurrency = 5

	// ProgressInterval is how many completions pass between progress lines
	ProgressInterval = 10
)

// PluginExtractor extracts one plugin directory. *Extractor implements it.
type PluginExtractor interface {
	Extract(ctx context.Context, slug, dir string) (Result, error)
}

// Driver extracts every plugin under a plugins root with bounded
// concurrency.
type Driver struct {
	Extractor PluginExtractor

	// Concurrency caps in-flight extractions; DefaultConcurrency when <= 0
	Concurrency int

	// Logger receives progress output; nil discards it
	Logger *log.Logger

	// Interactive suppresses progress lines when output is a terminal
	Interactive bool
}

// ExtractAll discovers and extracts the plugins under pluginsRoot. Skipped
// directories are left out. Two directories resolving to the same name fail
// with a *DuplicateNameError.
func (d *Driver) ExtractAll(ctx context.Context, pluginsRoot string) (types.PluginMapping, error) {
	logger := d.logger()

	dirs, err := scanner.DiscoverPluginDirs(pluginsRoot)
	if err != nil {
		return nil, err
	}

	if !d.Interactive {
		logger.Info("Found plugin directories", "count", len(dirs), "root", filepath.Base(pluginsRoot))
	}

	limit := d.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	registry := NewRegistry()
	var processed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, slug := range dirs {
		g.Go(func() error {
			res, err := d.Extractor.Extract(ctx, slug, filepath.Join(pluginsRoot, slug))
			if err != nil {
				return fmt.Errorf("failed to extract plugin %s: %w", slug, err)
			}

			n := processed.Add(1)
			if !d.Interactive && n%ProgressInterval == 0 {
				logger.Info("Processed plugins", "done", n, "total", len(dirs))
			}

			if !res.OK() {
				logger.Debug("Skipped plugin directory", "dir", slug, "reason", res.Skip)
				return nil
			}
			return registry.Register(res.Record)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("Extracted plugins", "count", registry.Count(), "root", filepath.Base(pluginsRoot))
	return registry.Mapping(), nil
}

func (d *Driver) logger() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return log.New(io.Discard)
}
