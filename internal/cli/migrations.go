// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/api2spec/plugopts/internal/migration"
)

var migrationsDryRun bool

var migrationsCmd = &cobra.Command{
	Use:   "migrations [source]",
	Short: "Detect plugin renames and update deprecated.nix",
	Long: `Scan a source tree for settings migration calls and merge the detected
plugin renames into deprecated.nix.

The Equicord tree is scanned when configured, otherwise the Vencord tree.
When nothing can be scanned a built-in table of known renames is used.

Example:
  plugopts migrations                     # Update ./deprecated.nix
  plugopts migrations --dry-run           # Print the merged registry`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrations,
}

func init() {
	migrationsCmd.Flags().BoolVar(&migrationsDryRun, "dry-run", false, "print the merged registry without writing it")
}

func runMigrations(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	source := migrationSource(cfg)
	if len(args) > 0 {
		source = args[0]
	}

	printVerbose("Scanning %s for migrations", source)
	migrations := migration.Extract(cmd.Context(), source, logger)
	printInfo("Found %d migrations", len(migrations))
	names := make([]string, 0, len(migrations))
	for name := range migrations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		printVerbose("  %s", formatMigration(name, migrations[name]))
	}

	if migrationsDryRun {
		path := filepath.Join(cfg.Deprecated.Dir, migration.RegistryFileName)
		existing, err := migration.ReadRegistry(path)
		if err != nil {
			printVerbose("Ignoring malformed %s: %v", path, err)
		}
		_, err = cmd.OutOrStdout().Write(migration.RenderRegistry(migration.Merge(existing, migrations)))
		return err
	}

	if migration.UpdateRegistry(migrations, cfg.Deprecated.Dir, logger, verbose) {
		printInfo("Updated %s", filepath.Join(cfg.Deprecated.Dir, migration.RegistryFileName))
	} else {
		printInfo("%s is up to date", migration.RegistryFileName)
	}

	return nil
}

// formatMigration renders one registry entry for log output.
func formatMigration(oldName string, newName *string) string {
	if newName == nil {
		return fmt.Sprintf("%s (removed)", oldName)
	}
	return fmt.Sprintf("%s -> %s", oldName, *newName)
}
