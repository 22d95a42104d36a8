// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/api2spec/plugopts/internal/config"
)

var (
	initForce       bool
	initInteractive bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new plugopts configuration file",
	Long: `Initialize a new plugopts configuration file in the current directory.

This command creates a plugopts.yaml file with sensible defaults
that you can customize for your project.

Features:
  - Detects a Vencord tree in the current directory
  - Detects a sibling Equicord checkout
  - Honors --source, --equicord, --output and --format

Example:
  plugopts init                         # Detect source trees and create config
  plugopts init -e ../Equicord          # Set the Equicord tree explicitly
  plugopts init --force                 # Overwrite existing config
  plugopts init --interactive           # Interactive mode with prompts`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "interactive mode with prompts")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := "plugopts.yaml"

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil && !initForce {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", configFile)
	}

	projectRoot, err := filepath.Abs(".")
	if err != nil {
		return fmt.Errorf("failed to determine project root: %w", err)
	}

	cfg := config.Default()
	detectSources(projectRoot, cfg)

	// Apply command-line overrides
	if sourcePath != "" {
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

	if initInteractive && term.IsTerminal(int(os.Stdin.Fd())) {
		cfg = interactiveInit(cfg, os.Stdin, cmd.OutOrStdout())
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	content, err := buildConfigYAML(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	printInfo("Created %s", configFile)
	printVerbose("Vencord: %s", cfg.Sources.Vencord)
	printVerbose("Equicord: %s", cfg.Sources.Equicord)
	printVerbose("Output: %s", cfg.Output)

	return nil
}

// equicordCandidates are sibling checkouts probed for the Equicord tree.
var equicordCandidates = []string{"../Equicord", "../equicord"}

// detectSources fills the source roots from the project layout.
func detectSources(projectRoot string, cfg *config.Config) {
	if isDir(filepath.Join(projectRoot, cfg.Directories.Vencord)) {
		cfg.Sources.Vencord = "."
	}

	for _, candidate := range equicordCandidates {
		if isDir(filepath.Join(projectRoot, candidate, cfg.Directories.Equicord)) {
			cfg.Sources.Equicord = candidate
			printVerbose("Detected Equicord tree: %s", candidate)
			return
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// interactiveInit prompts for each value, keeping the current one on an
// empty answer.
func interactiveInit(cfg *config.Config, in io.Reader, out io.Writer) *config.Config {
	reader := bufio.NewReader(in)

	prompt := func(label string, current *string) {
		fmt.Fprintf(out, "%s [%s]: ", label, *current)
		answer, _ := reader.ReadString('\n')
		if answer = strings.TrimSpace(answer); answer != "" {
			*current = answer
		}
	}

	prompt("Vencord source", &cfg.Sources.Vencord)
	prompt("Equicord source", &cfg.Sources.Equicord)
	prompt("Output file", &cfg.Output)
	prompt("Output format (json/yaml, empty infers)", &cfg.Format)

	return cfg
}

// buildConfigYAML builds a YAML config with a header comment.
func buildConfigYAML(cfg *config.Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	header := `# plugopts configuration file
# Environment variables prefixed with PLUGOPTS_ override these values,
# e.g. PLUGOPTS_SOURCES_EQUICORD=../Equicord

`
	return header + string(data), nil
}
