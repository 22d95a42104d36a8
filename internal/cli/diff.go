// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/api2spec/plugopts/internal/output"
	"github.com/api2spec/plugopts/pkg/types"
)

var diffCmd = &cobra.Command{
	Use:   "diff [file1] [file2]",
	Short: "Compare two plugin documents",
	Long: `Compare two plugin documents and show the differences.

If only one file is provided, it is compared against a document generated
from the configured source trees.

If no files are provided, the configured output file is compared against
a freshly generated document.

Example:
  plugopts diff                           # Compare current vs generated
  plugopts diff plugins.json              # Compare file vs generated
  plugopts diff old.json new.yaml         # Compare two files`,
	Args: cobra.MaximumNArgs(2),
	RunE: runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	var a, b *types.CategorizedResult
	var err error

	switch len(args) {
	case 2:
		printVerbose("Comparing %s against %s", args[0], args[1])
		if a, err = output.ReadFile(args[0]); err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		if b, err = output.ReadFile(args[1]); err != nil {
			return fmt.Errorf("failed to read %s: %w", args[1], err)
		}
	default:
		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}
		path := cfg.Output
		if len(args) == 1 {
			path = args[0]
		}
		printVerbose("Comparing %s against generated document", path)
		if a, err = output.ReadFile(path); err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if b, err = buildDocument(cmd.Context(), cfg); err != nil {
			return err
		}
	}

	result, err := output.NewDiffer().Diff(a, b)
	if err != nil {
		return fmt.Errorf("failed to compare documents: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), output.FormatDiff(result))
	return nil
}
