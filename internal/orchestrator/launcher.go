package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/semaphore"
)

// InFlightMetrics tracks running tasks.
type InFlightMetrics interface {
	IncInFlight()
	DecInFlight()
}

// Launcher runs fire-and-forget tasks on background goroutines, at most
// limit at a time. Submit never blocks the caller; tasks beyond the limit
// wait inside their own goroutine. No handle to a task is returned.
type Launcher struct {
	sem     *semaphore.Weighted
	wg      sync.WaitGroup
	logger  *slog.Logger
	metrics InFlightMetrics
}

func NewLauncher(limit int, logger *slog.Logger, metrics InFlightMetrics) *Launcher {
	if limit <= 0 {
		limit = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		sem:     semaphore.NewWeighted(int64(limit)),
		logger:  logger,
		metrics: metrics,
	}
}

// Submit detaches task from ctx's cancellation, keeping its values (trace,
// request id), and runs it in the background.
func (l *Launcher) Submit(ctx context.Context, name string, task func(ctx context.Context)) {
	ctx = context.WithoutCancel(ctx)

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		if err := l.sem.Acquire(ctx, 1); err != nil {
			l.logger.ErrorContext(ctx, "launcher could not acquire slot", "task", name, "error", err)
			return
		}
		defer l.sem.Release(1)

		if l.metrics != nil {
			l.metrics.IncInFlight()
			defer l.metrics.DecInFlight()
		}

		defer func() {
			if r := recover(); r != nil {
				l.logger.ErrorContext(ctx, "background task panicked",
					"task", name,
					"panic", fmt.Sprint(r),
					"stack", string(debug.Stack()),
				)
			}
		}()

		task(ctx)
	}()
}

// Wait blocks until every submitted task returned or ctx is done.
func (l *Launcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("launcher: waiting for background tasks: %w", ctx.Err())
	}
}
