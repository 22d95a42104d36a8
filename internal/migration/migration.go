// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package migration detects plugins that were folded into other plugins and
// maintains the deprecated plugin registry.
package migration

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/sync/errgroup"

	"github.com/api2spec/plugopts/internal/parser"
	"github.com/api2spec/plugopts/internal/scanner"
	"github.com/api2spec/plugopts/internal/util"
	"github.com/api2spec/plugopts/internal/workspace"
	"github.com/api2spec/plugopts/pkg/types"
)

// CalleeName is the call that moves an old plugin's settings into a new one:
// migratePluginToSettings(deleteOld, newName, oldName, ...settings).
const CalleeName = "migratePluginToSettings"

// KnownMigrations is the fallback used when the tree cannot be scanned.
func KnownMigrations() types.Migrations {
	return types.Migrations{
		"AmITyping":      types.Target("TypingTweaks"),
		"AllCallTimers":  types.Target("CallTimer"),
		"QuestCompleter": types.Target("Questify"),
	}
}

// Extract scans every TypeScript file under root for settings migrations.
// It never fails: a tree without a compiler configuration, without sources,
// or without any migration yields KnownMigrations. Files that cannot be read
// are skipped.
func Extract(ctx context.Context, root string, logger *log.Logger) types.Migrations {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if _, err := os.Stat(filepath.Join(root, workspace.ConfigFileName)); err != nil {
		logger.Debug("No compiler configuration, using known migrations", "root", root)
		return KnownMigrations()
	}

	paths, err := scanner.New(scanner.Config{BasePath: root}).Paths(ctx)
	if err != nil {
		logger.Debug("Source scan failed, using known migrations", "error", err)
		return KnownMigrations()
	}
	if len(paths) == 0 {
		return KnownMigrations()
	}

	p := parser.NewTypeScriptParser()
	needle := []byte(CalleeName)
	found := make([][][2]string, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			content, err := os.ReadFile(path)
			if err != nil || !bytes.Contains(content, needle) {
				return nil
			}
			pf, err := p.ParseContext(gctx, path, content)
			if err != nil {
				logger.Debug("Skipping unparsable file", "path", path, "error", err)
				return nil
			}
			defer pf.Close()
			found[i] = scanFile(p, pf)
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		logger.Debug("Migration scan interrupted, using known migrations", "error", ctx.Err())
		return KnownMigrations()
	}

	migrations := make(types.Migrations)
	for _, pairs := range found {
		for _, pair := range pairs {
			migrations[pair[0]] = types.Target(pair[1])
		}
	}

	if len(migrations) == 0 {
		return KnownMigrations()
	}
	return migrations
}

// scanFile returns the (old, new) name pairs of every migration call in pf.
func scanFile(p *parser.TypeScriptParser, pf *parser.ParsedTSFile) [][2]string {
	var pairs [][2]string

	calls := p.FindCallsMatching(pf.RootNode, pf.Content, func(call *sitter.Node) bool {
		return p.GetCalleeText(call, pf.Content) == CalleeName
	})
	for _, call := range calls {
		args := p.GetCallArguments(call, pf.Content)
		if len(args) < 3 {
			continue
		}
		newName := util.StripQuotes(args[1].Content(pf.Content))
		oldName := util.StripQuotes(args[2].Content(pf.Content))
		if oldName == "" || newName == "" {
			continue
		}
		pairs = append(pairs, [2]string{oldName, newName})
	}

	return pairs
}
