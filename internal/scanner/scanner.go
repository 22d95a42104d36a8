// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIncludePatterns match every TypeScript source in the tree.
var DefaultIncludePatterns = []string{"**/*.{ts,tsx}"}

// DefaultExcludePatterns skip dependency and build output directories.
var DefaultExcludePatterns = []string{"node_modules/**", ".git/**", "dist/**"}

// Config holds scanner configuration.
type Config struct {
	// BasePath is the base directory for scanning (defaults to current directory)
	BasePath string

	// IncludePatterns are glob patterns for files to include
	IncludePatterns []string

	// ExcludePatterns are glob patterns for files and directories to skip
	ExcludePatterns []string
}

// Scanner discovers source files in a project.
type Scanner struct {
	config Config
}

// New creates a new Scanner with the given configuration.
func New(config Config) *Scanner {
	if config.BasePath == "" {
		config.BasePath = "."
	}
	if len(config.IncludePatterns) == 0 {
		config.IncludePatterns = DefaultIncludePatterns
	}
	if config.ExcludePatterns == nil {
		config.ExcludePatterns = DefaultExcludePatterns
	}

	return &Scanner{
		config: config,
	}
}

// Paths lists the absolute paths of matching source files under the base
// path, in walk order. Files are not read.
func (s *Scanner) Paths(ctx context.Context) ([]string, error) {
	basePath, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base path: %w", err)
	}

	info, err := os.Stat(basePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("path does not exist: %s", basePath)
		}
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", basePath)
	}

	var paths []string

	err = filepath.WalkDir(basePath, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip inaccessible paths
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		relPath, err := filepath.Rel(basePath, filePath)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if s.shouldExcludeDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.shouldIncludeFile(relPath) {
			paths = append(paths, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return paths, nil
}

// shouldIncludeFile checks a slash-separated relative path against the
// extension filter and patterns.
func (s *Scanner) shouldIncludeFile(relPath string) bool {
	if !IsSourceFile(relPath) {
		return false
	}
	if matchesPatterns(relPath, s.config.ExcludePatterns) {
		return false
	}
	return matchesPatterns(relPath, s.config.IncludePatterns)
}

// shouldExcludeDir checks if a directory should be excluded.
func (s *Scanner) shouldExcludeDir(relPath string) bool {
	if relPath == "" || relPath == "." {
		return false
	}

	for _, pattern := range s.config.ExcludePatterns {
		// "node_modules" matches "node_modules/**"
		dirPattern := strings.TrimSuffix(pattern, "/**")
		dirPattern = strings.TrimSuffix(dirPattern, "/*")

		if relPath == dirPattern {
			return true
		}

		matched, _ := doublestar.Match(pattern, relPath+"/dummy.ts")
		if matched {
			return true
		}
	}

	return false
}

func matchesPatterns(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			// Invalid pattern, skip
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
