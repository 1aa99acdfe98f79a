// Package lifecycle holds the process-level pieces of shutdown: the signals
// that end the terminal, the exit status it reports, and the errors that
// abort startup.
package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ShutdownSignals end the application gracefully
var ShutdownSignals = []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}

// WatchSignals calls onSignal for the first shutdown signal received.
// The returned stop function unregisters the handler; it is safe to call
// more than once. Later signals fall back to the default disposition only
// after stop.
func WatchSignals(ctx context.Context, onSignal func(os.Signal), logger *slog.Logger) (stop func()) {
	if logger == nil {
		logger = slog.Default()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, ShutdownSignals...)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
			onSignal(sig)
		case <-ctx.Done():
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
			signal.Stop(sigCh)
		})
	}
}

// ExitStatus is the status the process exits with. The first status
// recorded wins, so a child exit followed by the teardown it triggers
// reports the child's status.
type ExitStatus struct {
	mu   sync.Mutex
	code int
	set  bool
}

// Set records code unless a status was already recorded
func (e *ExitStatus) Set(code int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set {
		return
	}
	e.code = code
	e.set = true
}

// Code returns the recorded status, 0 if none
func (e *ExitStatus) Code() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.code
}

// FatalError marks an error that must terminate the process with a
// failure status
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return e.Err.Error() }

func (e *FatalError) Unwrap() error { return e.Err }

// Fatal wraps err as fatal; nil stays nil
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal reports whether err is or wraps a FatalError
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
