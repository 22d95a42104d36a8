// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/api2spec/plugopts/internal/output"
	"github.com/api2spec/plugopts/pkg/types"
)

var printCmd = &cobra.Command{
	Use:   "print [file]",
	Short: "Print the plugin document to stdout",
	Long: `Print the plugin document to standard output.

If a file is provided, it is read and re-encoded in the requested format.
Otherwise the document is generated from the configured source trees.

This is useful for piping the output to other tools or for quick inspection.

Example:
  plugopts print                          # Generate and print
  plugopts print plugins.json -f yaml     # Convert an existing file
  plugopts print | jq '.generic | keys'   # Pipe to jq for processing`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrint,
}

func runPrint(cmd *cobra.Command, args []string) error {
	outputFormat := format
	if outputFormat == "" {
		outputFormat = output.FormatJSON
	}

	printVerbose("Print configuration:")
	printVerbose("  Format: %s", outputFormat)

	var doc *types.CategorizedResult
	if len(args) > 0 {
		var err error
		if doc, err = output.ReadFile(args[0]); err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
	} else {
		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}
		if doc, err = buildDocument(cmd.Context(), cfg); err != nil {
			return err
		}
	}

	w := output.NewWriter()
	var text string
	var err error
	switch strings.ToLower(outputFormat) {
	case output.FormatYAML, "yml":
		text, err = w.ToYAML(doc)
	case output.FormatJSON:
		text, err = w.ToJSON(doc)
	default:
		return fmt.Errorf("unsupported format: %s", outputFormat)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), text)
	return err
}
