package middleware

import (
	"context"

	"github.com/NitinDahiya199/higgsfield.ai/job"
)

// Handler is the innermost call of a chain, normally the registered
// job.Handler bound to the job being processed.
type Handler func(ctx context.Context) error

// Middleware wraps one handler invocation. It must call next unless it
// deliberately short-circuits, and it returns the error that decides the
// job's terminal list.
type Middleware func(ctx context.Context, j *job.Job, next Handler) error

// Chain composes mws so that the first element is the outermost wrapper.
// An empty chain calls next directly.
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, j *job.Job, next Handler) error {
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw, inner := mws[i], h
			h = func(ctx context.Context) error {
				return mw(ctx, j, inner)
			}
		}
		return h(ctx)
	}
}

// Invoke runs h for j through mw.
func Invoke(ctx context.Context, mw Middleware, h job.Handler, j *job.Job) error {
	return mw(ctx, j, func(ctx context.Context) error {
		return h.Handle(ctx, j)
	})
}
