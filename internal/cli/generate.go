// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/api2spec/plugopts/internal/config"
	"github.com/api2spec/plugopts/internal/migration"
	"github.com/api2spec/plugopts/internal/output"
	"github.com/api2spec/plugopts/internal/plugins"
	"github.com/api2spec/plugopts/pkg/types"
)

var (
	generateDryRun       bool
	generateNoDeprecated bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [source]",
	Short: "Generate the categorized plugin document",
	Long: `Generate a categorized plugin document from the Vencord and Equicord
source trees.

The generate command discovers every plugin directory, extracts each
plugin's name, description and settings, reconciles the two trees and
writes the result. Detected plugin renames are merged into deprecated.nix.

Example:
  plugopts generate                              # Vencord tree in current directory
  plugopts generate ../Vencord -e ../Equicord    # Both trees
  plugopts generate -o plugins.yaml              # YAML output
  plugopts generate --dry-run                    # Print instead of writing`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "print the document instead of writing it")
	generateCmd.Flags().BoolVar(&generateNoDeprecated, "no-deprecated", false, "skip updating deprecated.nix")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	doc, err := buildDocument(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	writer := output.NewWriter()
	if generateDryRun {
		printInfo("Dry run mode - no files will be written")
		return writer.Write(doc, cmd.OutOrStdout(), documentFormat(cfg))
	}

	if err := writer.WriteFile(doc, cfg.Output, cfg.Format); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.Output, err)
	}
	printInfo("Wrote %d plugins to %s (%d generic, %d vencord-only, %d equicord-only)",
		doc.Total(), cfg.Output, len(doc.Generic), len(doc.VencordOnly), len(doc.EquicordOnly))

	if cfg.Deprecated.Enabled && !generateNoDeprecated {
		updateDeprecated(cmd.Context(), cfg)
	}

	return nil
}

// loadConfig loads the config file and applies command-line overrides. A
// positional argument overrides the Vencord source root.
func loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Apply command-line overrides
	if len(args) > 0 {
		cfg.Sources.Vencord = args[0]
	} else if sourcePath != "" {
		cfg.Sources.Vencord = sourcePath
	}
	if equicordPath != "" {
		cfg.Sources.Equicord = equicordPath
	}
	if outputPath != "" {
		cfg.Output = outputPath
	}
	if format != "" {
		cfg.Format = format
	}
	if concurrency > 0 {
		cfg.Concurrency = concurrency
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	printVerbose("Configuration:")
	printVerbose("  Vencord: %s", cfg.Sources.Vencord)
	printVerbose("  Equicord: %s", cfg.Sources.Equicord)
	printVerbose("  Output: %s", cfg.Output)
	printVerbose("  Concurrency: %d", cfg.Concurrency)

	return cfg, nil
}

// buildDocument parses the configured trees and categorizes them. The
// Equicord tree is parsed after the Vencord tree, never alongside it.
func buildDocument(ctx context.Context, cfg *config.Config) (*types.CategorizedResult, error) {
	opts := plugins.DefaultOptions()
	if cfg.Directories.Vencord != "" {
		opts.VencordDir = cfg.Directories.Vencord
	}
	if cfg.Directories.Equicord != "" {
		opts.EquicordDir = cfg.Directories.Equicord
	}
	if cfg.Concurrency > 0 {
		opts.Concurrency = cfg.Concurrency
	}
	opts.Logger = logger
	opts.Interactive = isInteractive()

	printVerbose("Parsing Vencord plugins in %s", cfg.Sources.Vencord)
	vencord, err := plugins.ParsePlugins(ctx, cfg.Sources.Vencord, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", cfg.Sources.Vencord, err)
	}

	var equicord *types.ParsedPlugins
	if cfg.Sources.Equicord != "" {
		printVerbose("Parsing Equicord plugins in %s", cfg.Sources.Equicord)
		parsed, err := plugins.ParsePlugins(ctx, cfg.Sources.Equicord, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", cfg.Sources.Equicord, err)
		}
		equicord = &parsed
	}

	result := plugins.Categorize(vencord, equicord)
	return &result, nil
}

// migrationSource is the tree scanned for plugin migrations: the Equicord
// tree when configured, since it carries the rename calls.
func migrationSource(cfg *config.Config) string {
	if cfg.Sources.Equicord != "" {
		return cfg.Sources.Equicord
	}
	return cfg.Sources.Vencord
}

// updateDeprecated scans for migrations and merges them into the registry.
// It never fails the command.
func updateDeprecated(ctx context.Context, cfg *config.Config) {
	migrations := migration.Extract(ctx, migrationSource(cfg), logger)
	if migration.UpdateRegistry(migrations, cfg.Deprecated.Dir, logger, verbose) {
		printVerbose("Updated %s", migration.RegistryFileName)
	}
}

// documentFormat resolves the format used when the document is not
// written to a file.
func documentFormat(cfg *config.Config) string {
	if cfg.Format != "" {
		return cfg.Format
	}
	return output.FormatFromPath(cfg.Output)
}
