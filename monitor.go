package mpsc

import "github.com/wagiedev/mpsc-go/internal/queue"

type statsSource interface {
	ID() string
	Stats() queue.Stats
}

// Monitor is a read-only view of a channel's statistics. It references the
// shared channel state only, never a Sender or Receiver, so holding a Monitor
// does not stop a dropped handle from being released.
type Monitor struct {
	src statsSource
}

// ID returns the channel identifier.
func (m Monitor) ID() string {
	return m.src.ID()
}

// Stats returns a snapshot of the channel.
func (m Monitor) Stats() Stats {
	return m.src.Stats()
}

// Monitor returns a statistics view of the channel that does not keep s
// reachable.
func (s *Sender[T]) Monitor() Monitor {
	return Monitor{src: s.state}
}

// Monitor returns a statistics view of the channel that does not keep r
// reachable.
func (r *Receiver[T]) Monitor() Monitor {
	return Monitor{src: r.state}
}
