// Package errors defines error types for the mpsc channel.
//
// Sentinel errors cover the terminal states of a channel (disconnected,
// closed handle, empty on a non-blocking receive). PoisonError reports a
// channel whose queue may have been left half-written by a panic. All error
// types support unwrapping and can be checked with errors.Is and errors.As.
package errors
