package understory

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/jward/understory/internal/store"
)

// analyzeFilesParallel analyzes files in three phases:
//
//	Phase A (serial):   Hash check, prepare file records.
//	Phase B (parallel): Parse and run the rule catalog on a worker pool;
//	                    every unit gets its own Session, so no analysis
//	                    state is shared between goroutines.
//	Phase C (serial):   Commit findings to SQLite.
func (e *Engine) analyzeFilesParallel(ctx context.Context, paths []string) error {
	// ---- Phase A: serial file preparation ----
	var items []workItem
	for _, path := range paths {
		item, skip, err := e.prepareFile(path)
		if err != nil {
			return fmt.Errorf("prepare %s: %w", path, err)
		}
		if skip {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil
	}

	// ---- Phase B: parallel analysis ----
	numWorkers := min(runtime.NumCPU(), len(items))
	if numWorkers < 1 {
		numWorkers = 1
	}

	workCh := make(chan workItem, len(items))
	for _, item := range items {
		workCh <- item
	}
	close(workCh)

	type result struct {
		item     workItem
		findings []store.Finding
		err      error
	}
	resultCh := make(chan result, len(items))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workCh {
				if ctx.Err() != nil {
					resultCh <- result{item: item, err: ctx.Err()}
					continue
				}
				findings, err := e.analyzeSource(ctx, item.src)
				resultCh <- result{item: item, findings: findings, err: err}
			}
		}()
	}
	wg.Wait()
	close(resultCh)

	// ---- Phase C: serial commit ----
	for res := range resultCh {
		if res.err != nil {
			return fmt.Errorf("analyze %s: %w", res.item.path, res.err)
		}
		if err := e.store.ReplaceFindings(res.item.fileID, res.findings); err != nil {
			return fmt.Errorf("commit %s: %w", res.item.path, err)
		}
	}
	return nil
}
