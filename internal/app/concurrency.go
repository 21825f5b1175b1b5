package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// PartialResult is the outcome of one leg of ParallelPartial.
type PartialResult[T any] struct {
	Value T
	Err   error
}

// ParallelPartial runs every fn concurrently and waits for all of them.
// Failures stay in their own slot and never cancel the other legs, which is
// what the sync pull and push need. Results keep the order of fns.
func ParallelPartial[T any](ctx context.Context, fns ...func(context.Context) (T, error)) []PartialResult[T] {
	out := make([]PartialResult[T], len(fns))

	var g errgroup.Group
	for i, fn := range fns {
		g.Go(func() error {
			out[i].Value, out[i].Err = fn(ctx)
			return nil
		})
	}
	_ = g.Wait()

	return out
}
