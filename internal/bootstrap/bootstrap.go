// Package bootstrap provides application lifecycle helpers.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// DefaultGracePeriod bounds how long Run waits for run to return after a signal.
const DefaultGracePeriod = 5 * time.Second

// App manages application lifecycle with graceful shutdown support.
type App struct {
	mu          sync.Mutex
	hooks       []namedHook
	gracePeriod time.Duration
}

type namedHook struct {
	name string
	fn   func(ctx context.Context) error
}

// New creates a new App.
func New() *App {
	return &App{gracePeriod: DefaultGracePeriod}
}

// WithGracePeriod sets how long Run waits for run to return after its context
// is cancelled.
func (a *App) WithGracePeriod(d time.Duration) *App {
	a.gracePeriod = d
	return a
}

// AddShutdownHook registers a function to call when Run finishes.
// Hooks run in reverse order (LIFO). Thread-safe.
func (a *App) AddShutdownHook(name string, fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, namedHook{name: name, fn: fn})
}

// Run executes run with a context that is cancelled on interrupt or SIGTERM.
// Shutdown hooks are called once run returns. After a signal, run gets the
// grace period to return before the hooks run anyway. The error of run is
// joined with the hook errors.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		slog.Debug("shutting down", "cause", context.Cause(ctx))
		timer := time.NewTimer(a.gracePeriod)
		defer timer.Stop()
		select {
		case runErr = <-errCh:
		case <-timer.C:
			slog.Warn("run did not return before shutdown", "grace_period", a.gracePeriod)
		}
	case runErr = <-errCh:
	}
	return errors.Join(runErr, a.shutdown(context.WithoutCancel(ctx)))
}

func (a *App) shutdown(ctx context.Context) error {
	a.mu.Lock()
	hooks := a.hooks
	a.hooks = nil
	a.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i].fn(ctx); err != nil {
			slog.Error("shutdown hook failed", "hook", hooks[i].name, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
