package job

import (
	"context"
	"fmt"
)

// Handler processes one job. A nil return files the job as completed; any
// error files it as failed.
type Handler interface {
	Handle(ctx context.Context, j *Job) error
}

// HandlerFunc adapts a synchronous function to Handler.
type HandlerFunc func(ctx context.Context, j *Job) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, j *Job) error { return f(ctx, j) }

// AsyncFunc starts work and reports its outcome on the returned channel.
// The channel must receive exactly one value or be closed; a close without
// a value counts as success.
type AsyncFunc func(ctx context.Context, j *Job) <-chan error

// Async adapts fn to Handler. Handle blocks until fn's channel delivers or
// ctx is done, so callers never need to know the handler is asynchronous.
func Async(fn AsyncFunc) Handler {
	return asyncHandler(fn)
}

type asyncHandler AsyncFunc

func (a asyncHandler) Handle(ctx context.Context, j *Job) error {
	done := a(ctx, j)
	if done == nil {
		return fmt.Errorf("async handler for job %s returned a nil channel", j.ID)
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
