package mpsc

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Producer sends values on tx until it is done or ctx ends. It must not
// close tx; FanIn does that when the producer returns.
type Producer[T any] func(ctx context.Context, tx *Sender[T]) error

// FanIn runs each producer in its own goroutine with its own clone of tx and
// waits for all of them. Each clone is closed when its producer returns, so
// once the caller also closes tx the receiver sees ErrDisconnected after the
// last value.
//
// The first producer error cancels the context passed to the others and is
// returned. tx itself is left open.
//
// Example:
//
//	tx, rx := mpsc.Channel[int]()
//	go func() {
//	    defer tx.Close()
//	    _ = mpsc.FanIn(ctx, tx, produceA, produceB)
//	}()
//	for v, err := range rx.All(ctx) { ... }
func FanIn[T any](ctx context.Context, tx *Sender[T], producers ...Producer[T]) error {
	clones := make([]*Sender[T], 0, len(producers))

	for range producers {
		clone, err := tx.Clone()
		if err != nil {
			for _, c := range clones {
				_ = c.Close()
			}

			return fmt.Errorf("clone sender: %w", err)
		}

		clones = append(clones, clone)
	}

	g, gCtx := errgroup.WithContext(ctx)

	for i, produce := range producers {
		clone := clones[i]

		g.Go(func() error {
			defer func() { _ = clone.Close() }()

			return produce(gCtx, clone)
		})
	}

	return g.Wait()
}
