package signalhandler

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"imagecompare/logging"
)

// SetupHandler returns a context that is cancelled on the first SIGINT or
// SIGTERM. The run checks it between groups so the report is either fully
// written or left untouched; a second signal exits immediately. The
// returned stop function releases the signal channel and its goroutine.
func SetupHandler(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	// Create a channel to receive OS signals
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logging.LogWarning("Received %s, stopping after the current group", sig)
			cancel()
		case <-ctx.Done():
			return
		case <-done:
			return
		}

		select {
		case <-sigChan:
			os.Exit(130)
		case <-done:
		}
	}()

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			signal.Stop(sigChan)
			close(done)
			cancel()
		})
	}
}
