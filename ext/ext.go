package ext

import (
	"context"
	"time"

	"github.com/NitinDahiya199/higgsfield.ai/job"
)

// Extension is the base interface every extension implements.
type Extension interface {
	// Name identifies the extension in logs.
	Name() string
}

// JobClaimed is called after a job id has been pushed onto its active list
// and before the handler runs.
type JobClaimed interface {
	OnJobClaimed(ctx context.Context, j *job.Job) error
}

// JobCompleted is called after a job has been filed on its completed list.
type JobCompleted interface {
	OnJobCompleted(ctx context.Context, j *job.Job, elapsed time.Duration) error
}

// JobFailed is called after a job has been filed on its failed list. cause
// is the handler error, a *middleware.PanicError, higgsfield.ErrNoHandler
// or a payload decoding error.
type JobFailed interface {
	OnJobFailed(ctx context.Context, j *job.Job, cause error) error
}

// JobDropped is called when a popped job id had no payload and was
// discarded without touching any state list.
type JobDropped interface {
	OnJobDropped(ctx context.Context, queue, jobID string) error
}

// Shutdown is called once when the consumer has drained.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
