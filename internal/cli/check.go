// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/api2spec/plugopts/internal/output"
)

// Exit codes for check command
const (
	ExitCodeMatch      = 0 // Document matches the source trees
	ExitCodeDifference = 1 // Document differs from the source trees
	ExitCodeCheckError = 2 // Error during analysis
)

var (
	checkIgnore []string
	checkCI     bool
)

var checkCmd = &cobra.Command{
	Use:   "check [source]",
	Short: "Check if the plugin document matches the source trees",
	Long: `Check validates that the generated plugin document is up to date.

This command regenerates the document in memory and compares it with the
existing file. It's useful in CI to ensure plugins.json is regenerated
whenever a plugin or its settings change.

Exit codes (with --ci):
  0  Document matches the source trees
  1  Document differs from the source trees
  2  Error during analysis

Example:
  plugopts check                          # Report differences
  plugopts check --ci                     # CI mode with exit codes
  plugopts check --ignore 'Test*'         # Ignore plugins by name`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringSliceVar(&checkIgnore, "ignore", nil, "plugin name patterns to ignore in comparison")
	checkCmd.Flags().BoolVar(&checkCI, "ci", false, "CI mode: use exit codes for status")
}

func runCheck(cmd *cobra.Command, args []string) error {
	fail := func(code int, err error) error {
		if checkCI {
			return &ExitError{Code: code, Err: err}
		}
		return err
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return fail(ExitCodeCheckError, err)
	}

	printVerbose("Check configuration:")
	printVerbose("  CI mode: %t", checkCI)
	if len(checkIgnore) > 0 {
		printVerbose("  Ignored patterns: %s", strings.Join(checkIgnore, ", "))
	}
	printVerbose("  Document: %s", cfg.Output)

	if _, err := os.Stat(cfg.Output); errors.Is(err, os.ErrNotExist) {
		printError("Plugin document not found: %s", cfg.Output)
		printInfo("Run 'plugopts generate' first to create it")
		return fail(ExitCodeDifference, fmt.Errorf("plugin document not found: %s", cfg.Output))
	}

	existing, err := output.ReadFile(cfg.Output)
	if err != nil {
		return fail(ExitCodeCheckError, fmt.Errorf("failed to read existing document: %w", err))
	}

	generated, err := buildDocument(cmd.Context(), cfg)
	if err != nil {
		return fail(ExitCodeCheckError, fmt.Errorf("failed to generate document: %w", err))
	}

	diffResult, err := output.NewDiffer().Diff(existing, generated)
	if err != nil {
		return fail(ExitCodeCheckError, fmt.Errorf("failed to compare documents: %w", err))
	}

	diffResult = applyIgnorePatterns(diffResult, checkIgnore)

	if diffResult.IsEmpty() {
		printInfo("Plugin document is in sync with the source trees")
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), output.FormatDiff(diffResult))

	if diffResult.HasBreakingChanges {
		printError("Breaking changes detected!")
	}
	printInfo("Run 'plugopts generate' to update %s", cfg.Output)

	return fail(ExitCodeDifference, fmt.Errorf("plugin document differs from the source trees"))
}

// applyIgnorePatterns filters out changes to plugins matching patterns.
func applyIgnorePatterns(result *output.DiffResult, patterns []string) *output.DiffResult {
	if len(patterns) == 0 {
		return result
	}

	filtered := &output.DiffResult{
		Changes: []output.PluginChange{},
	}

	for _, change := range result.Changes {
		if matchesAnyPattern(change.Name, patterns) {
			continue
		}
		filtered.Changes = append(filtered.Changes, change)
		if change.Type == output.DiffTypeRemoved || strings.Contains(change.Description, "settings removed") {
			filtered.HasBreakingChanges = true
		}
	}

	filtered.Summary = generateFilteredSummary(filtered)

	return filtered
}

// matchesAnyPattern checks if a plugin name matches any of the given
// glob patterns.
func matchesAnyPattern(s string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, s); err == nil && matched {
			return true
		}
	}
	return false
}

// generateFilteredSummary generates a summary for filtered results.
func generateFilteredSummary(result *output.DiffResult) string {
	if result.IsEmpty() {
		return "No changes detected (after applying filters)"
	}

	counts := make(map[output.DiffType]int)
	for _, c := range result.Changes {
		counts[c.Type]++
	}

	var parts []string
	for _, t := range []output.DiffType{output.DiffTypeAdded, output.DiffTypeRemoved, output.DiffTypeMoved, output.DiffTypeModified} {
		if counts[t] > 0 {
			parts = append(parts, fmt.Sprintf("%d plugin(s) %s", counts[t], t))
		}
	}

	summary := strings.Join(parts, ", ")
	if result.HasBreakingChanges {
		summary += " [BREAKING CHANGES DETECTED]"
	}

	return summary
}
