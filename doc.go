// Package mpsc provides an unbounded, in-process FIFO channel with any number
// of senders and exactly one receiver.
//
// A channel is a queue guarded by a sync.Mutex plus a sync.Cond on that mutex.
// Senders append and signal; the receiver waits on the condition while the
// queue is empty and re-checks after every wake-up, so neither a wake-up
// without a value nor a value sent just before the receiver goes to sleep can
// make it return early or block forever.
//
// # Basic Usage
//
//	tx, rx := mpsc.Channel[int]()
//
//	go func() {
//	    defer tx.Close()
//	    for i := range 3 {
//	        _ = tx.Send(i)
//	    }
//	}()
//
//	for v, err := range rx.All(ctx) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(v) // 0, 1, 2
//	}
//
// # Handles and Disconnection
//
// Send never blocks. Receive blocks until a value is queued. Each Sender is a
// counted reference: Clone adds one and Close releases one. When the last
// sender is released the receiver drains what is left and then gets
// ErrDisconnected. Closing the Receiver makes later sends fail with
// ErrDisconnected. Handles dropped without Close are released by the garbage
// collector.
//
// Use ReceiveContext to bound a wait with a context, and FanIn to run several
// producers on cloned senders.
//
// # Poisoning
//
// SendAll runs the caller's iterator while holding the channel lock so the
// batch lands atomically. If that iterator panics the batch may be partial and
// the channel is poisoned. What happens next is chosen with WithPoisonPolicy
// (or the MPSC_POISON_POLICY environment variable):
//
//   - PoisonPanic (default): later operations panic with a *PoisonError.
//   - PoisonIgnore: the flag is cleared and operations continue.
//   - PoisonSurface: later operations return a *PoisonError until
//     Receiver.Recover is called.
//
// # Logging
//
// Channels log lifecycle events through log/slog when given WithLogger:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	tx, rx := mpsc.Channel[string](mpsc.WithLogger(logger), mpsc.WithName("jobs"))
//
// # Error Handling
//
//	v, err := rx.ReceiveContext(ctx)
//	switch {
//	case errors.Is(err, mpsc.ErrDisconnected):
//	    // all senders gone and nothing left
//	case errors.Is(err, mpsc.ErrPoisoned):
//	    perr, _ := errors.AsType[*mpsc.PoisonError](err)
//	    log.Printf("channel %s poisoned: %v", perr.ChannelID, perr.Cause)
//	}
package mpsc
