package mpsc

import (
	"context"
	"errors"
	"iter"
)

// All returns an iterator over received values. It stops without an error
// when the channel disconnects, and yields a single error for anything else
// (cancellation, a closed receiver, a surfaced poison).
//
//	for v, err := range rx.All(ctx) {
//	    if err != nil {
//	        return err
//	    }
//	    handle(v)
//	}
func (r *Receiver[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, err := r.ReceiveContext(ctx)
			if errors.Is(err, ErrDisconnected) {
				return
			}

			if err != nil {
				var zero T

				yield(zero, err)

				return
			}

			if !yield(v, nil) {
				return
			}
		}
	}
}

// Drain returns the values queued right now without blocking. An empty or
// disconnected channel ends the drain with a nil error; any other error
// (a closed receiver, a surfaced poison) is returned with the values taken
// before it.
func (r *Receiver[T]) Drain() ([]T, error) {
	var out []T

	for {
		v, err := r.TryReceive()
		if errors.Is(err, ErrEmpty) || errors.Is(err, ErrDisconnected) {
			return out, nil
		}

		if err != nil {
			return out, err
		}

		out = append(out, v)
	}
}
