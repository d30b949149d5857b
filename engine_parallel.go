package harmonizer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// analyzeParallel runs a three-phase pipeline:
//
//	Phase A (serial):   Hash check, delete old data, prepare file records.
//	Phase B (parallel): Parse, score and suggest via a bounded worker pool,
//	                    each file writing into its own BatchedStore.
//	Phase C (serial):   Commit batches to SQLite, compare severities.
//
// Only the committing goroutine touches the database after Phase A.
func (e *Engine) analyzeParallel(ctx context.Context, paths []string, summary *RunSummary) error {
	// ---- Phase A: Serial file preparation ----
	var items []workItem
	var errs []error
	for _, path := range paths {
		item, skip, err := e.prepareFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("prepare %s: %w", path, err))
			continue
		}
		if skip {
			summary.FilesSkipped++
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return collect(errs)
	}

	// ---- Phase B: Parallel analysis ----
	resultCh := make(chan fileResult, len(items))
	var waitErr error

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(e.workers, len(items)))
	go func() {
		for _, item := range items {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					resultCh <- fileResult{item: item, err: err}
					return err
				}
				res := e.processFile(gctx, item, item.batch)
				resultCh <- res
				if res.err != nil && gctx.Err() != nil {
					return gctx.Err()
				}
				return nil
			})
		}
		waitErr = g.Wait()
		close(resultCh)
	}()

	// ---- Phase C: Serial commit ----
	for res := range resultCh {
		if res.err == nil && res.parseErr == nil {
			if err := e.store.CommitBatch(res.item.batch); err != nil {
				res.err = fmt.Errorf("commit %s: %w", res.item.path, err)
			}
		}
		if err := e.finishFile(res, summary); err != nil {
			errs = append(errs, err)
		}
	}

	if waitErr != nil {
		return fmt.Errorf("harmonizer: parallel analysis: %w", waitErr)
	}
	return collect(errs)
}
