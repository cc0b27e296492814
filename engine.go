package understory

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jward/understory/internal/parser"
	"github.com/jward/understory/internal/store"
)

// jsExtensions are the file extensions AnalyzeDirectory picks up.
var jsExtensions = map[string]bool{
	".js":  true,
	".jsx": true,
	".mjs": true,
	".cjs": true,
}

// Engine orchestrates batch analysis: file discovery, content-hash change
// detection, per-unit parsing and rule evaluation, and the SQLite
// findings store.
type Engine struct {
	store       *store.Store
	sessionOpts []SessionOption
	useParallel bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithParallel controls the parallel analysis pipeline. When true (the
// default), AnalyzeFiles parses and analyzes units on a worker pool, each
// unit with its own Session, and commits findings serially. Set to false
// for serial mode.
func WithParallel(parallel bool) Option {
	return func(e *Engine) {
		e.useParallel = parallel
	}
}

// WithWrappers replaces the wrapper callee names the alias resolver
// recognizes in every Session the Engine creates.
func WithWrappers(names ...string) Option {
	return func(e *Engine) {
		e.sessionOpts = append(e.sessionOpts, WithWrapperNames(names...))
	}
}

// New creates an Engine backed by a SQLite database at dbPath.
func New(dbPath string, opts ...Option) (*Engine, error) {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("understory: create store: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("understory: migrate: %w", err)
	}
	e := &Engine{store: s, useParallel: true}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Close releases the Engine's database resources.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store returns the underlying Store for direct access.
func (e *Engine) Store() *Store {
	return e.store
}

// AnalyzeDirectory walks dir for JavaScript sources and analyzes them.
func (e *Engine) AnalyzeDirectory(ctx context.Context, dir string) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Skip dependency trees and hidden directories.
			name := d.Name()
			if name == "node_modules" || (strings.HasPrefix(name, ".") && path != dir) {
				return filepath.SkipDir
			}
			return nil
		}
		if jsExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("understory: walk %s: %w", dir, err)
	}
	return e.AnalyzeFiles(ctx, paths)
}

// AnalyzeFiles analyzes the given files, skipping any whose content hash
// is unchanged since the last run. Unsupported extensions are ignored.
func (e *Engine) AnalyzeFiles(ctx context.Context, paths []string) error {
	if e.useParallel && len(paths) > 1 {
		return e.analyzeFilesParallel(ctx, paths)
	}
	for _, path := range paths {
		item, skip, err := e.prepareFile(path)
		if err != nil {
			return fmt.Errorf("prepare %s: %w", path, err)
		}
		if skip {
			continue
		}
		findings, err := e.analyzeSource(ctx, item.src)
		if err != nil {
			return fmt.Errorf("analyze %s: %w", path, err)
		}
		if err := e.store.ReplaceFindings(item.fileID, findings); err != nil {
			return fmt.Errorf("commit %s: %w", path, err)
		}
	}
	return nil
}

// workItem holds everything a worker needs to analyze one unit.
type workItem struct {
	path   string
	fileID int64
	src    []byte
}

// prepareFile reads and hashes one file, records it in the store, and
// reports skip=true when the content is unchanged or the extension is not
// JavaScript.
func (e *Engine) prepareFile(path string) (workItem, bool, error) {
	if !jsExtensions[strings.ToLower(filepath.Ext(path))] {
		return workItem{}, true, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return workItem{}, false, fmt.Errorf("read: %w", err)
	}
	hash := fmt.Sprintf("%x", sha256.Sum256(src))

	existing, err := e.store.FileByPath(path)
	if err != nil {
		return workItem{}, false, err
	}
	if existing != nil && existing.Hash == hash {
		return workItem{}, true, nil
	}

	fileID, err := e.store.UpsertFile(&store.File{
		Path: path, Hash: hash, LastAnalyzed: time.Now(),
	})
	if err != nil {
		return workItem{}, false, err
	}
	return workItem{path: path, fileID: fileID, src: src}, false, nil
}

// analyzeSource parses one unit and runs the rule catalog over it with a
// fresh Session.
func (e *Engine) analyzeSource(ctx context.Context, src []byte) ([]store.Finding, error) {
	unit, err := parser.Parse(ctx, src)
	if err != nil {
		return nil, err
	}
	findings := AnalyzeUnit(unit, e.sessionOpts...)
	rows := make([]store.Finding, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, store.Finding{
			Rule:      f.Rule,
			Message:   f.Message,
			StartLine: f.Start.Line,
			StartCol:  f.Start.Col,
			EndLine:   f.End.Line,
			EndCol:    f.End.Col,
		})
	}
	return rows, nil
}

// Findings returns the stored findings for one path in source order.
func (e *Engine) Findings(path string) ([]FileFinding, error) {
	f, err := e.store.FileByPath(path)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, nil
	}
	return e.store.FindingsByFile(f.ID)
}

// AllFindings returns every stored finding keyed by file path.
func (e *Engine) AllFindings() (map[string][]FileFinding, error) {
	return e.store.AllFindings()
}
