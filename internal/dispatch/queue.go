package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// Queue runs background work with bounded concurrency. Go blocks while the
// limit is reached. Task errors are logged, not propagated.
type Queue struct {
	g      errgroup.Group
	logger *slog.Logger
}

// NewQueue creates a queue running at most limit tasks at once. A limit
// below one means unbounded.
func NewQueue(limit int, logger *slog.Logger) *Queue {
	q := &Queue{logger: logger}
	if limit > 0 {
		q.g.SetLimit(limit)
	}
	return q
}

// Go schedules fn. name identifies the task in logs.
func (q *Queue) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	q.g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
				q.logger.ErrorContext(ctx, "background task panicked",
					slog.String("task", name),
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()

		if err := fn(ctx); err != nil {
			q.logger.ErrorContext(ctx, "background task failed",
				slog.String("task", name),
				slog.String("error", err.Error()),
			)
		}
		return nil
	})
}

// Wait blocks until every scheduled task has returned.
func (q *Queue) Wait() {
	_ = q.g.Wait()
}
