package mpsc

import (
	"context"
	"iter"
	"runtime"
	"sync/atomic"

	"github.com/wagiedev/mpsc-go/internal/errors"
	"github.com/wagiedev/mpsc-go/internal/queue"
)

// Stats is a point-in-time snapshot of a channel.
type Stats = queue.Stats

// Channel creates an unbounded FIFO channel and returns its sending and
// receiving handles. Both handles refer to the same shared queue, which lives
// until neither side can reach it.
//
// Handles should be closed when no longer needed. A handle that is dropped
// without Close is released when the garbage collector reclaims it, which has
// the same effect but happens at an unspecified time.
func Channel[T any](opts ...Option) (*Sender[T], *Receiver[T]) {
	options := applyOptions(opts)
	state := queue.New[T](options.Resolve())

	return newSender(state), newReceiver(state)
}

// Sender is the sending half of a channel. It is safe for concurrent use;
// use Clone to hand independent references to other producers.
type Sender[T any] struct {
	state   *queue.State[T]
	closed  atomic.Bool
	cleanup runtime.Cleanup
}

func newSender[T any](state *queue.State[T]) *Sender[T] {
	s := &Sender[T]{state: state}
	s.cleanup = runtime.AddCleanup(s, (*queue.State[T]).ReleaseSender, state)

	return s
}

// Send appends v to the channel and wakes the receiver if it is waiting.
// It never blocks on capacity.
//
// Send fails with ErrDisconnected once the receiver is closed or every
// sending handle has been released, and with ErrHandleClosed if this handle
// was closed. A nil error means the receiver will see v.
func (s *Sender[T]) Send(v T) error {
	if s.closed.Load() {
		return errors.ErrHandleClosed
	}

	err := s.state.Send(v)
	runtime.KeepAlive(s)

	return err
}

// SendAll appends every value of seq as one batch that no other sender can
// interleave with, and returns how many were appended.
//
// seq runs while the channel is locked, so it must not use the channel. If
// seq panics, the values appended so far stay queued, the channel is
// poisoned, and the panic continues in the caller.
func (s *Sender[T]) SendAll(seq iter.Seq[T]) (int, error) {
	if s.closed.Load() {
		return 0, errors.ErrHandleClosed
	}

	n, err := s.state.SendAll(seq)
	runtime.KeepAlive(s)

	return n, err
}

// Clone returns a new sending handle on the same channel. The receiver sees
// ErrDisconnected only after every clone is released.
func (s *Sender[T]) Clone() (*Sender[T], error) {
	if s.closed.Load() {
		return nil, errors.ErrHandleClosed
	}

	if err := s.state.AddSender(); err != nil {
		return nil, err
	}

	return newSender(s.state), nil
}

// Close releases this sending handle. It returns ErrHandleClosed if called
// more than once.
func (s *Sender[T]) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return errors.ErrHandleClosed
	}

	s.cleanup.Stop()
	s.state.ReleaseSender()

	return nil
}

// ID returns the channel identifier shared by all handles of the channel.
func (s *Sender[T]) ID() string {
	return s.state.ID()
}

// Len returns the number of queued values.
func (s *Sender[T]) Len() int {
	return s.state.Len()
}

// Stats returns a snapshot of the channel.
func (s *Sender[T]) Stats() Stats {
	return s.state.Stats()
}

// Receiver is the receiving half of a channel. There is one per channel.
type Receiver[T any] struct {
	state   *queue.State[T]
	closed  atomic.Bool
	cleanup runtime.Cleanup
}

func newReceiver[T any](state *queue.State[T]) *Receiver[T] {
	r := &Receiver[T]{state: state}
	r.cleanup = runtime.AddCleanup(r, (*queue.State[T]).CloseReceiver, state)

	return r
}

// Receive blocks until a value is available, then removes and returns the
// oldest one.
//
// Values sent before the last sender was released are still delivered; after
// that Receive returns ErrDisconnected. With a live sender that never sends,
// Receive blocks forever; use ReceiveContext to bound the wait.
func (r *Receiver[T]) Receive() (T, error) {
	return r.ReceiveContext(context.Background())
}

// ReceiveContext is like Receive but returns ctx.Err() if ctx ends while
// waiting. A value that is already queued is returned even if ctx is done.
func (r *Receiver[T]) ReceiveContext(ctx context.Context) (T, error) {
	if r.closed.Load() {
		var zero T

		return zero, errors.ErrHandleClosed
	}

	v, err := r.state.Receive(ctx)
	runtime.KeepAlive(r)

	return v, err
}

// TryReceive returns the oldest value without blocking, or ErrEmpty.
func (r *Receiver[T]) TryReceive() (T, error) {
	if r.closed.Load() {
		var zero T

		return zero, errors.ErrHandleClosed
	}

	v, err := r.state.TryReceive()
	runtime.KeepAlive(r)

	return v, err
}

// Recover clears a poisoned channel and reports whether it was poisoned.
// Under PoisonSurface this is how the caller accepts a queue that may hold a
// partial batch.
func (r *Receiver[T]) Recover() bool {
	return r.state.Recover()
}

// Close closes the receiving side. Queued values are discarded and senders
// get ErrDisconnected from then on. It returns ErrHandleClosed if called
// more than once.
func (r *Receiver[T]) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return errors.ErrHandleClosed
	}

	r.cleanup.Stop()
	r.state.CloseReceiver()

	return nil
}

// ID returns the channel identifier shared by all handles of the channel.
func (r *Receiver[T]) ID() string {
	return r.state.ID()
}

// Len returns the number of queued values.
func (r *Receiver[T]) Len() int {
	return r.state.Len()
}

// Stats returns a snapshot of the channel.
func (r *Receiver[T]) Stats() Stats {
	return r.state.Stats()
}
