package mpsc

import "github.com/wagiedev/mpsc-go/internal/errors"

// Re-export error types from internal package

// PoisonError reports a channel whose lock was held by a panicking operation.
type PoisonError = errors.PoisonError

// ChannelError is the base interface for typed channel errors.
type ChannelError = errors.ChannelError

// Re-export sentinel errors from internal package.
var (
	// ErrDisconnected indicates the other side of the channel is gone.
	ErrDisconnected = errors.ErrDisconnected

	// ErrEmpty indicates TryReceive found nothing queued.
	ErrEmpty = errors.ErrEmpty

	// ErrHandleClosed indicates the handle was already closed.
	ErrHandleClosed = errors.ErrHandleClosed

	// ErrPoisoned matches any *PoisonError via errors.Is.
	ErrPoisoned = errors.ErrPoisoned
)
