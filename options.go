package mpsc

import (
	"log/slog"

	"github.com/wagiedev/mpsc-go/internal/config"
)

// Options configures a channel. Most callers use the With* functions instead
// of filling it directly.
type Options = config.Options

// PoisonPolicy selects how a channel behaves after a panic inside one of its
// critical sections.
type PoisonPolicy = config.PoisonPolicy

const (
	// PoisonPanic makes every later operation panic with a *PoisonError.
	// This is the default.
	PoisonPanic = config.PoisonPanic

	// PoisonIgnore clears the poison flag on the next operation and carries on.
	PoisonIgnore = config.PoisonIgnore

	// PoisonSurface makes every later operation return a *PoisonError until
	// Receiver.Recover is called.
	PoisonSurface = config.PoisonSurface
)

// PoisonPolicyEnv is consulted when no policy is set with WithPoisonPolicy.
const PoisonPolicyEnv = config.PoisonPolicyEnv

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to an Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithName attaches a human-readable name to the channel's logs and stats.
func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// WithID overrides the generated channel identifier.
func WithID(id string) Option {
	return func(o *Options) {
		o.ID = id
	}
}

// WithInitialCapacity preallocates room for n queued values.
// The queue still grows without bound.
func WithInitialCapacity(n int) Option {
	return func(o *Options) {
		o.InitialCapacity = n
	}
}

// WithPoisonPolicy sets the poison policy, overriding MPSC_POISON_POLICY.
func WithPoisonPolicy(policy PoisonPolicy) Option {
	return func(o *Options) {
		o.PoisonPolicy = &policy
	}
}

// NopLogger returns a logger that discards all output.
// It is what a channel uses when no logger is configured.
func NopLogger() *slog.Logger {
	return config.NopLogger()
}

// ParsePoisonPolicy parses "panic", "ignore" or "surface" (aliases "fatal",
// "clear" and "error" are accepted).
func ParsePoisonPolicy(s string) (PoisonPolicy, error) {
	return config.ParsePoisonPolicy(s)
}
