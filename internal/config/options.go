// Package config provides configuration types for mpsc channels.
package config

import (
	"io"
	"log/slog"
	"os"

	"github.com/oklog/ulid/v2"
)

const (
	// DefaultInitialCapacity is the number of slots preallocated for a new queue.
	DefaultInitialCapacity = 16

	// PoisonPolicyEnv names the environment variable consulted when no
	// poison policy is configured explicitly.
	PoisonPolicyEnv = "MPSC_POISON_POLICY"
)

// Options configures a channel.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Name is a human-readable label attached to logs and stats.
	Name string

	// ID overrides the generated channel identifier.
	// If empty, a fresh ULID is used.
	ID string

	// InitialCapacity preallocates queue slots.
	// Values <= 0 select DefaultInitialCapacity.
	InitialCapacity int

	// PoisonPolicy decides what happens after a panic inside a critical section.
	// If nil, the MPSC_POISON_POLICY environment variable is consulted,
	// then PoisonPanic is used.
	PoisonPolicy *PoisonPolicy
}

// Resolved holds the effective settings derived from Options.
type Resolved struct {
	Logger          *slog.Logger
	Name            string
	ID              string
	InitialCapacity int
	PoisonPolicy    PoisonPolicy
}

// Resolve fills defaults. An unparsable MPSC_POISON_POLICY value is logged
// and ignored.
func (o *Options) Resolve() Resolved {
	if o == nil {
		o = &Options{}
	}

	r := Resolved{
		Logger:          o.Logger,
		Name:            o.Name,
		ID:              o.ID,
		InitialCapacity: o.InitialCapacity,
		PoisonPolicy:    PoisonPanic,
	}

	if r.ID == "" {
		r.ID = ulid.Make().String()
	}

	if r.InitialCapacity <= 0 {
		r.InitialCapacity = DefaultInitialCapacity
	}

	log := r.Logger
	if log == nil {
		log = NopLogger()
	}

	attrs := []any{"component", "mpsc", "channel", r.ID}
	if r.Name != "" {
		attrs = append(attrs, "name", r.Name)
	}

	r.Logger = log.With(attrs...)

	switch {
	case o.PoisonPolicy != nil:
		r.PoisonPolicy = *o.PoisonPolicy
	case os.Getenv(PoisonPolicyEnv) != "":
		raw := os.Getenv(PoisonPolicyEnv)

		policy, err := ParsePoisonPolicy(raw)
		if err != nil {
			r.Logger.Warn("Ignoring invalid poison policy from environment",
				"env", PoisonPolicyEnv, "value", raw, "error", err)
		} else {
			r.PoisonPolicy = policy
		}
	}

	return r
}

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
