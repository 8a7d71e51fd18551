package search

import (
	"context"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// runSerial processes files one at a time, in input order.
func (s *searcher) runSerial(ctx context.Context, files []string) ([]outcome, error) {
	every := s.req.Options.FileProgress
	outcomes := make([]outcome, 0, len(files))

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if every > 0 && i%every == 0 {
			s.log.Info("processing", "n", i+1, "of", len(files), "file", filepath.Base(file))
		}
		outcomes = append(outcomes, s.searchFile(ctx, i, file))
	}
	return outcomes, nil
}

// runParallel processes files on a fixed pool of workers. Outcomes are
// collected from a channel in completion order.
func (s *searcher) runParallel(ctx context.Context, files []string) ([]outcome, error) {
	every := s.req.Options.FileProgress

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.req.Workers)

	results := make(chan outcome, s.req.Workers)

	var waitErr error
	go func() {
		for i, file := range files {
			if ctx.Err() != nil {
				break
			}

			// Blocks while all workers are busy.
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				results <- s.searchFile(ctx, i, file)
				return nil
			})
		}

		// Written before close, read after the range below ends.
		waitErr = g.Wait()
		close(results)
	}()

	outcomes := make([]outcome, 0, len(files))
	for out := range results {
		outcomes = append(outcomes, out)
		if every > 0 && len(outcomes)%every == 0 {
			s.log.Info("processed", "n", len(outcomes), "of", len(files), "file", filepath.Base(out.path))
		}
	}

	if waitErr != nil {
		return nil, waitErr
	}
	// The parent context may end after the last file was started.
	if err := ctx.Err(); err != nil && len(outcomes) < len(files) {
		return nil, err
	}
	return outcomes, nil
}
