package mpsc

import "context"

// WithChannel manages channel lifecycle with automatic cleanup.
//
// It creates a channel with the given options, calls fn with both handles,
// and closes whichever handles fn left open once fn returns. fn's error is
// returned as is.
//
// Example usage:
//
//	err := mpsc.WithChannel(ctx, func(tx *mpsc.Sender[Job], rx *mpsc.Receiver[Job]) error {
//	    go produce(tx)
//	    for job, err := range rx.All(ctx) {
//	        if err != nil {
//	            return err
//	        }
//	        run(job)
//	    }
//	    return nil
//	},
//	    mpsc.WithLogger(log),
//	    mpsc.WithName("jobs"),
//	)
func WithChannel[T any](
	ctx context.Context,
	fn func(*Sender[T], *Receiver[T]) error,
	opts ...Option,
) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	tx, rx := Channel[T](opts...)

	// fn may already have closed either handle; ErrHandleClosed is expected then.
	defer func() {
		_ = tx.Close()
		_ = rx.Close()
	}()

	return fn(tx, rx)
}
