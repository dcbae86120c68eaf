package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/NitinDahiya199/higgsfield.ai/job"
)

// PanicError is returned by Recover when a handler panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panic: %v", e.Value)
}

// Recover turns a handler panic into a *PanicError so the job is filed as
// failed and the queue loop keeps running.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, j *job.Job, next Handler) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			stack := debug.Stack()
			logger.Error("job handler panicked",
				slog.String("job_id", j.ID),
				slog.String("queue", j.Queue),
				slog.Any("panic", r),
				slog.String("stack", string(stack)),
			)
			err = &PanicError{Value: r, Stack: stack}
		}()
		return next(ctx)
	}
}
