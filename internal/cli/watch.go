// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/api2spec/plugopts/internal/config"
	"github.com/api2spec/plugopts/internal/output"
	"github.com/api2spec/plugopts/internal/watch"
)

var watchDebounce int

var watchCmd = &cobra.Command{
	Use:   "watch [source]",
	Short: "Watch plugin sources and regenerate the document",
	Long: `Watch the plugin directories of both source trees and regenerate the
plugin document whenever a TypeScript source changes.

The document is generated once at startup. Changes arriving within the
debounce window are coalesced into a single regeneration.

Example:
  plugopts watch                          # Watch the configured trees
  plugopts watch -e ../Equicord           # Include the Equicord tree
  plugopts watch --debounce 1000          # Wait 1s before regenerating`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchDebounce, "debounce", 0, "debounce duration in milliseconds (default: 500)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	if watchDebounce > 0 {
		cfg.Watch.Debounce = watchDebounce
	}

	regenerate := func(ctx context.Context, changed []string) error {
		if len(changed) > 0 {
			printVerbose("Changed: %s", strings.Join(changed, ", "))
		}
		doc, err := buildDocument(ctx, cfg)
		if err != nil {
			return err
		}
		if err := output.NewWriter().WriteFile(doc, cfg.Output, cfg.Format); err != nil {
			return fmt.Errorf("failed to write %s: %w", cfg.Output, err)
		}
		printInfo("Regenerated %s (%d plugins)", cfg.Output, doc.Total())
		return nil
	}

	w, err := watch.New(watch.Config{
		Roots:    watchRoots(cfg),
		Debounce: time.Duration(cfg.Watch.Debounce) * time.Millisecond,
		OnChange: regenerate,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	if err := regenerate(cmd.Context(), nil); err != nil {
		printError("%v", err)
	}

	printVerbose("Debounce: %dms", cfg.Watch.Debounce)
	printInfo("Watching for changes in: %s", strings.Join(w.Roots(), ", "))
	printInfo("Press Ctrl+C to stop")

	return w.Run(cmd.Context())
}

// watchRoots lists every plugin directory of the configured trees.
func watchRoots(cfg *config.Config) []string {
	sources := []string{cfg.Sources.Vencord}
	if cfg.Sources.Equicord != "" {
		sources = append(sources, cfg.Sources.Equicord)
	}

	var roots []string
	for _, source := range sources {
		for _, dir := range []string{cfg.Directories.Vencord, cfg.Directories.Equicord} {
			if dir != "" {
				roots = append(roots, filepath.Join(source, dir))
			}
		}
	}
	return roots
}
