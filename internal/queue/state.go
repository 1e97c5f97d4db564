package queue

import (
	"context"
	"iter"
	"log/slog"
	"sync"

	"github.com/wagiedev/mpsc-go/internal/config"
	"github.com/wagiedev/mpsc-go/internal/errors"
)

// Stats is a point-in-time snapshot of a channel.
type Stats struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	Queued       int    `json:"queued"`
	Senders      int    `json:"senders"`
	ReceiverOpen bool   `json:"receiverOpen"`
	Poisoned     bool   `json:"poisoned"`
	Sent         uint64 `json:"sent"`
	Received     uint64 `json:"received"`
	Waiters      int    `json:"waiters"`
}

// State is the shared state behind one channel.
//
// Every field below mu is guarded by it. Methods never call cond.Signal or
// cond.Broadcast for a value hand-off while still holding mu, so a woken
// receiver does not immediately block again on the lock.
type State[T any] struct {
	id     string
	name   string
	log    *slog.Logger
	policy config.PoisonPolicy

	mu   sync.Mutex
	cond *sync.Cond

	items        ring[T]
	senders      int
	receiverOpen bool
	poison       *errors.PoisonError
	sent         uint64
	received     uint64
	waiters      int
}

// New creates the state for a channel with one sending reference and an
// open receiver.
func New[T any](cfg config.Resolved) *State[T] {
	s := &State[T]{
		id:           cfg.ID,
		name:         cfg.Name,
		log:          cfg.Logger,
		policy:       cfg.PoisonPolicy,
		items:        newRing[T](cfg.InitialCapacity),
		senders:      1,
		receiverOpen: true,
	}
	s.cond = sync.NewCond(&s.mu)

	s.log.Debug("Channel created", "capacity", cfg.InitialCapacity, "poison_policy", cfg.PoisonPolicy)

	return s
}

// ID returns the channel identifier.
func (s *State[T]) ID() string {
	return s.id
}

// Send appends v to the tail of the queue and wakes one waiting receiver.
func (s *State[T]) Send(v T) error {
	if err := s.enqueue(v); err != nil {
		return err
	}

	s.cond.Signal()

	return nil
}

func (s *State[T]) enqueue(v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sendableLocked(); err != nil {
		return err
	}

	s.items.pushBack(v)
	s.sent++

	return nil
}

// SendAll appends every value produced by seq as one batch: no other sender
// can interleave with it. seq runs with the lock held and must not touch the
// channel. If seq panics the values appended so far stay queued, the channel
// is poisoned and the panic propagates.
func (s *State[T]) SendAll(seq iter.Seq[T]) (int, error) {
	n, err := s.enqueueAll(seq)

	switch {
	case n == 1:
		s.cond.Signal()
	case n > 1:
		s.cond.Broadcast()
	}

	return n, err
}

func (s *State[T]) enqueueAll(seq iter.Seq[T]) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sendableLocked(); err != nil {
		return 0, err
	}

	defer s.poisonOnPanic()

	for v := range seq {
		s.items.pushBack(v)
		s.sent++
		n++
	}

	return n, nil
}

// Receive blocks until a value is queued, then removes and returns the
// oldest one. A queued value is returned even when ctx is already done.
//
// It returns ErrDisconnected once every sending reference is released and
// the queue is empty, ErrHandleClosed if the receiver is closed while
// waiting, and ctx.Err() when ctx ends first.
func (s *State[T]) Receive(ctx context.Context) (T, error) {
	if ctx.Done() != nil {
		stop := context.AfterFunc(ctx, s.wakeAll)
		defer stop()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T

	for {
		if err := s.checkPoisonLocked(); err != nil {
			return zero, err
		}

		if !s.receiverOpen {
			return zero, errors.ErrHandleClosed
		}

		if s.items.len() > 0 {
			s.received++

			return s.items.popFront(), nil
		}

		if s.senders == 0 {
			return zero, errors.ErrDisconnected
		}

		if err := ctx.Err(); err != nil {
			return zero, err
		}

		// Wait may return without a matching Send; the loop re-checks.
		s.waiters++
		s.cond.Wait()
		s.waiters--
	}
}

// TryReceive removes and returns the oldest value without blocking.
func (s *State[T]) TryReceive() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T

	if err := s.checkPoisonLocked(); err != nil {
		return zero, err
	}

	if !s.receiverOpen {
		return zero, errors.ErrHandleClosed
	}

	if s.items.len() > 0 {
		s.received++

		return s.items.popFront(), nil
	}

	if s.senders == 0 {
		return zero, errors.ErrDisconnected
	}

	return zero, errors.ErrEmpty
}

// AddSender registers another sending reference. Disconnection is terminal:
// once the count has dropped to zero it fails with ErrDisconnected.
func (s *State[T]) AddSender() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.senders == 0 {
		return errors.ErrDisconnected
	}

	s.senders++
	s.log.Debug("Sender cloned", "senders", s.senders)

	return nil
}

// ReleaseSender drops one sending reference. Releasing the last one wakes
// every waiting receiver so it can observe the disconnect.
func (s *State[T]) ReleaseSender() {
	if !s.releaseSender() {
		return
	}

	s.cond.Broadcast()
}

func (s *State[T]) releaseSender() (last bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.senders == 0 {
		return false
	}

	s.senders--
	if s.senders > 0 {
		s.log.Debug("Sender released", "senders", s.senders)

		return false
	}

	s.log.Debug("All senders released", "queued", s.items.len())

	return true
}

// CloseReceiver marks the receiving side gone and discards queued values.
func (s *State[T]) CloseReceiver() {
	s.mu.Lock()

	dropped := s.items.len()
	s.receiverOpen = false
	s.items.clear()

	s.mu.Unlock()

	s.log.Debug("Receiver closed", "dropped", dropped)
	s.cond.Broadcast()
}

// Recover clears the poison flag and reports whether it was set. It is how a
// caller explicitly accepts a possibly-partial queue under PoisonSurface.
func (s *State[T]) Recover() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.poison == nil {
		return false
	}

	s.log.Warn("Poisoned channel recovered", "queued", s.items.len())
	s.poison = nil

	return true
}

// Len returns the number of queued values.
func (s *State[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.items.len()
}

// Stats returns a snapshot of the channel.
func (s *State[T]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		ID:           s.id,
		Name:         s.name,
		Queued:       s.items.len(),
		Senders:      s.senders,
		ReceiverOpen: s.receiverOpen,
		Poisoned:     s.poison != nil,
		Sent:         s.sent,
		Received:     s.received,
		Waiters:      s.waiters,
	}
}

// wakeAll takes the lock before broadcasting. A receiver that saw ctx.Err()
// == nil still holds the lock until cond.Wait parks it, so the broadcast
// cannot land in between.
func (s *State[T]) wakeAll() {
	s.mu.Lock()
	s.cond.Broadcast()
	s.mu.Unlock()
}

func (s *State[T]) sendableLocked() error {
	if err := s.checkPoisonLocked(); err != nil {
		return err
	}

	// Disconnect is terminal. A Send racing the last Close must fail rather
	// than queue a value the receiver will never read.
	if !s.receiverOpen || s.senders == 0 {
		return errors.ErrDisconnected
	}

	return nil
}

// checkPoisonLocked applies the poison policy. Under PoisonPanic it panics
// with the lock held; every caller releases the lock with defer.
func (s *State[T]) checkPoisonLocked() error {
	if s.poison == nil {
		return nil
	}

	switch s.policy {
	case config.PoisonIgnore:
		s.log.Warn("Ignoring poisoned channel", "cause", s.poison.Cause)
		s.poison = nil

		return nil

	case config.PoisonSurface:
		return s.poison

	default:
		panic(s.poison)
	}
}

// poisonOnPanic must be deferred inside a critical section, after the
// deferred Unlock, so it runs first.
func (s *State[T]) poisonOnPanic() {
	r := recover()
	if r == nil {
		return
	}

	s.poison = &errors.PoisonError{ChannelID: s.id, Cause: r}
	s.log.Warn("Channel poisoned", "cause", r, "queued", s.items.len())
	s.cond.Broadcast()

	panic(r)
}
