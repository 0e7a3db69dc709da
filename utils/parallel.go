package utils

import (
	"context"
	"fmt"
	"runtime"

	goutils "go.viam.com/utils"
	"golang.org/x/sync/errgroup"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
	quarterProcs := float64(ParallelFactor) * .25
	if quarterProcs > 8 {
		ParallelFactor = int(quarterProcs)
	}
}

// IndexedWorkFunc does the work for a single index.
type IndexedWorkFunc func(ctx context.Context, index int) error

// ForEachIndexParallel calls f for every index in [0, total) with at most workers calls in flight. A
// workers value below one uses ParallelFactor. The first error, or a panic turned into an error, cancels
// the context passed to the remaining calls and is returned. Indices not yet started when the context is
// cancelled are skipped, and the context error is returned.
func ForEachIndexParallel(ctx context.Context, total, workers int, f IndexedWorkFunc) error {
	if workers < 1 {
		workers = ParallelFactor
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < total; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			done := make(chan error, 1)
			goutils.PanicCapturingGoWithCallback(func() {
				done <- f(gctx, i)
			}, func(thePanic interface{}) {
				done <- fmt.Errorf("got panic running index %d in parallel: %v", i, thePanic)
			})
			return <-done
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
