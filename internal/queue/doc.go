// Package queue implements the shared state behind an mpsc channel.
//
// A State holds an unbounded FIFO ring buffer guarded by a sync.Mutex, and a
// sync.Cond bound to that mutex on which receivers sleep while the buffer is
// empty. cond.Wait releases the mutex and parks the goroutine as one step, so
// a Signal issued between a receiver's emptiness check and its sleep cannot
// be lost.
//
// State also tracks the liveness of both sides (the number of sending
// references and whether the receiver is open) and a poison flag set when a
// panic unwinds through a critical section that ran caller code.
package queue
