// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package watch monitors plugin trees and fires a debounced callback when
// their sources change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Config.Debounce is not set.
const DefaultDebounce = 500 * time.Millisecond

// DefaultPatterns select the files whose changes trigger a callback.
var DefaultPatterns = []string{"**/*.{ts,tsx}"}

// ignoredDirs are never descended into.
var ignoredDirs = []string{"node_modules", ".git", "dist"}

// ErrNoRoots is returned when none of the configured roots exist.
var ErrNoRoots = errors.New("no watchable directories")

// Config holds the parameters for a Watcher.
type Config struct {
	// Roots are the directories watched recursively. Missing roots are
	// skipped.
	Roots []string

	// Patterns are doublestar patterns relative to a root. Empty means
	// DefaultPatterns.
	Patterns []string

	// Debounce is the quiet period after the last event before OnChange
	// fires. Zero or negative means DefaultDebounce.
	Debounce time.Duration

	// OnChange receives the changed paths, relative to their root and
	// sorted. Events arriving while it runs are batched for the next call.
	OnChange func(ctx context.Context, changed []string) error

	Logger *log.Logger
}

// Watcher monitors plugin roots with fsnotify.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	roots    []string
	debounce time.Duration
	logger   *log.Logger
}

// New resolves the roots and registers every directory beneath them.
func New(cfg Config) (*Watcher, error) {
	var roots []string
	for _, root := range cfg.Roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %s: %w", root, err)
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			roots = append(roots, abs)
		}
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRoots, strings.Join(cfg.Roots, ", "))
	}

	if len(cfg.Patterns) == 0 {
		cfg.Patterns = DefaultPatterns
	}
	for _, pattern := range cfg.Patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("watch: invalid pattern %q", pattern)
		}
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		roots:    roots,
		debounce: debounce,
		logger:   logger,
	}

	for _, root := range roots {
		if err := w.addTree(root); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	return w, nil
}

// Roots returns the absolute roots being watched.
func (w *Watcher) Roots() []string {
	return append([]string(nil), w.roots...)
}

// Run processes events until ctx is canceled. It returns nil on
// cancellation and closes the watcher on exit.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: event channel closed")
			}

			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}

			rel, ok := w.relative(evt.Name)
			if !ok || !w.matches(rel) {
				continue
			}

			pending[rel] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: error channel closed")
			}
			w.logger.Warn("Watcher error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for rel := range pending {
				changed = append(changed, rel)
			}
			sort.Strings(changed)
			clear(pending)

			if w.cfg.OnChange != nil {
				if err := w.cfg.OnChange(ctx, changed); err != nil {
					w.logger.Error("Regeneration failed", "error", err)
				}
			}
		}
	}
}

func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Debug("Skipping inaccessible path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isIgnoredDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk %s: %w", root, err)
	}
	return nil
}

// maybeAddDir extends the watch to directories created after startup, so
// a newly added plugin directory is picked up.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || isIgnoredDir(filepath.Base(path)) {
		return
	}
	if err := w.addTree(path); err != nil {
		w.logger.Warn("Failed to watch new directory", "path", path, "error", err)
	}
}

// relative returns path relative to the root containing it.
func (w *Watcher) relative(path string) (string, bool) {
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		return filepath.ToSlash(rel), true
	}
	return "", false
}

func (w *Watcher) matches(rel string) bool {
	for _, pattern := range w.cfg.Patterns {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}

func isIgnoredDir(name string) bool {
	for _, ignored := range ignoredDirs {
		if name == ignored {
			return true
		}
	}
	return false
}
