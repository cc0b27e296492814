package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jward/understory"
)

// watch re-analyzes JavaScript files as they change under target. Events
// are debounced briefly because editors commonly emit several writes per
// save.
func watch(ctx context.Context, engine *understory.Engine, target string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer watcher.Close()

	if err := addDirs(watcher, target); err != nil {
		return err
	}

	pending := make(map[string]bool)
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					// New subtree: watch it too.
					if err := addDirs(watcher, ev.Name); err != nil {
						fmt.Fprintf(os.Stderr, "watch %s: %s\n", ev.Name, err)
					}
					continue
				}
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			if !isJSFile(ev.Name) {
				continue
			}
			pending[ev.Name] = true
			flush = time.After(200 * time.Millisecond)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %s\n", err)

		case <-flush:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			flush = nil

			if err := engine.AnalyzeFiles(ctx, paths); err != nil {
				fmt.Fprintf(os.Stderr, "analyze: %s\n", err)
				continue
			}
			for _, p := range paths {
				findings, err := engine.Findings(p)
				if err != nil {
					fmt.Fprintf(os.Stderr, "findings %s: %s\n", p, err)
					continue
				}
				if err := outputFindings(os.Stdout, map[string][]understory.FileFinding{p: findings}); err != nil {
					fmt.Fprintf(os.Stderr, "output: %s\n", err)
				}
			}
		}
	}
}

func addDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if name == "node_modules" || (strings.HasPrefix(name, ".") && path != root) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func isJSFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return true
	}
	return false
}
