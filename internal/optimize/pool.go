package optimize

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// runParallel executes n units of work on a pool bounded by maxWorkers.
// Cancellation is best-effort: a unit already started runs to completion, but
// no new unit starts once the context is done. Unit errors are the caller's
// to record; the pool itself never fails.
func runParallel(ctx context.Context, n, maxWorkers int, unit func(i int)) {
	g := new(errgroup.Group)
	g.SetLimit(maxWorkers)

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			_ = g.Wait()
			return
		default:
		}

		i := i
		g.Go(func() error {
			unit(i)
			return nil
		})
	}
	_ = g.Wait()
}
