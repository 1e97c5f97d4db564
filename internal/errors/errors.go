package errors

import (
	"errors"
	"fmt"
)

// ChannelError is the base interface for all channel errors.
type ChannelError interface {
	error
	IsChannelError() bool
}

// Compile-time verification that all error types implement ChannelError.
var (
	_ ChannelError = (*PoisonError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrDisconnected indicates the other side of the channel is gone.
	// A receiver sees it only after every sender is released and the queue is drained.
	ErrDisconnected = errors.New("channel disconnected")

	// ErrEmpty indicates a non-blocking receive found no queued value.
	ErrEmpty = errors.New("channel empty")

	// ErrHandleClosed indicates the handle was already closed.
	ErrHandleClosed = errors.New("handle closed")

	// ErrPoisoned indicates a panic unwound through a critical section.
	// Match it with errors.Is; the concrete type is *PoisonError.
	ErrPoisoned = errors.New("channel poisoned")
)

// PoisonError reports that an operation panicked while holding the channel
// lock, so the queue may hold a partial batch.
type PoisonError struct {
	ChannelID string
	// Cause is the value recovered from the panic.
	Cause any
}

func (e *PoisonError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("channel %s poisoned", e.ChannelID)
	}

	return fmt.Sprintf("channel %s poisoned: %v", e.ChannelID, e.Cause)
}

// Is reports ErrPoisoned as a match.
func (e *PoisonError) Is(target error) bool {
	return target == ErrPoisoned
}

// Unwrap returns the panic value when it was an error.
func (e *PoisonError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}

	return nil
}

// IsChannelError implements ChannelError.
func (e *PoisonError) IsChannelError() bool { return true }
