// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package cli provides the command-line interface for plugopts.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Global flags
var (
	cfgFile      string
	outputPath   string
	format       string
	sourcePath   string
	equicordPath string
	concurrency  int
	verbose      bool
	quiet        bool
)

// logger is shared by all commands; its level follows --verbose/--quiet.
var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "plugopts"})

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "plugopts",
	Short: "Plugin settings extractor for Vencord and Equicord",
	Long: `plugopts extracts plugin names, descriptions and settings schemas from
the Vencord and Equicord source trees and reconciles them into a single
categorized document: plugins shared by both trees, Vencord-only plugins
and Equicord-only plugins.

It also tracks plugin renames in a deprecated.nix registry.

Example:
  plugopts generate --equicord ../Equicord   # Generate plugins.json
  plugopts check --ci                        # Fail when plugins.json is stale
  plugopts migrations --dry-run              # Show detected plugin renames
  plugopts watch                             # Regenerate on source changes`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// The command context is canceled on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: plugopts.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "output file path (default: plugins.json)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "output format: json, yaml (default: from output extension)")
	rootCmd.PersistentFlags().StringVarP(&sourcePath, "source", "s", "", "Vencord source tree root (default: .)")
	rootCmd.PersistentFlags().StringVarP(&equicordPath, "equicord", "e", "", "Equicord source tree root")
	rootCmd.PersistentFlags().IntVarP(&concurrency, "concurrency", "j", 0, "plugins extracted at once (default: 5)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(migrationsCmd)
}

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// configureLogger applies the verbosity flags to the shared logger.
func configureLogger() {
	switch {
	case quiet:
		logger.SetLevel(log.ErrorLevel)
	case verbose:
		logger.SetLevel(log.DebugLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
}

// isInteractive reports whether stdout is a terminal. Progress lines are
// only logged for non-interactive runs such as CI.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// printInfo logs a message unless quiet.
func printInfo(msg string, args ...interface{}) {
	logger.Infof(msg, args...)
}

// printVerbose logs a message when verbose.
func printVerbose(msg string, args ...interface{}) {
	logger.Debugf(msg, args...)
}

// printError logs an error message.
func printError(msg string, args ...interface{}) {
	logger.Errorf(msg, args...)
}
