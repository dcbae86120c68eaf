package ext

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/NitinDahiya199/higgsfield.ai/job"
)

type entry[H any] struct {
	name string
	hook H
}

// Registry fans lifecycle events out to registered extensions. Hook
// implementations are resolved once at registration so an emit only walks
// the extensions that care about it. Safe for concurrent use.
type Registry struct {
	logger *slog.Logger

	mu         sync.RWMutex
	extensions []Extension
	claimed    []entry[JobClaimed]
	completed  []entry[JobCompleted]
	failed     []entry[JobFailed]
	dropped    []entry[JobDropped]
	shutdown   []entry[Shutdown]
}

// NewRegistry returns an empty registry. A nil logger uses slog.Default().
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Register adds e. Extensions are notified in registration order.
func (r *Registry) Register(e Extension) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.extensions = append(r.extensions, e)
	name := e.Name()
	if h, ok := e.(JobClaimed); ok {
		r.claimed = append(r.claimed, entry[JobClaimed]{name, h})
	}
	if h, ok := e.(JobCompleted); ok {
		r.completed = append(r.completed, entry[JobCompleted]{name, h})
	}
	if h, ok := e.(JobFailed); ok {
		r.failed = append(r.failed, entry[JobFailed]{name, h})
	}
	if h, ok := e.(JobDropped); ok {
		r.dropped = append(r.dropped, entry[JobDropped]{name, h})
	}
	if h, ok := e.(Shutdown); ok {
		r.shutdown = append(r.shutdown, entry[Shutdown]{name, h})
	}
}

// Extensions returns a copy of the registered extensions.
func (r *Registry) Extensions() []Extension {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Extension(nil), r.extensions...)
}

// EmitJobClaimed notifies JobClaimed hooks.
func (r *Registry) EmitJobClaimed(ctx context.Context, j *job.Job) {
	r.mu.RLock()
	hooks := r.claimed
	r.mu.RUnlock()
	for _, e := range hooks {
		r.report("OnJobClaimed", e.name, e.hook.OnJobClaimed(ctx, j))
	}
}

// EmitJobCompleted notifies JobCompleted hooks.
func (r *Registry) EmitJobCompleted(ctx context.Context, j *job.Job, elapsed time.Duration) {
	r.mu.RLock()
	hooks := r.completed
	r.mu.RUnlock()
	for _, e := range hooks {
		r.report("OnJobCompleted", e.name, e.hook.OnJobCompleted(ctx, j, elapsed))
	}
}

// EmitJobFailed notifies JobFailed hooks.
func (r *Registry) EmitJobFailed(ctx context.Context, j *job.Job, cause error) {
	r.mu.RLock()
	hooks := r.failed
	r.mu.RUnlock()
	for _, e := range hooks {
		r.report("OnJobFailed", e.name, e.hook.OnJobFailed(ctx, j, cause))
	}
}

// EmitJobDropped notifies JobDropped hooks.
func (r *Registry) EmitJobDropped(ctx context.Context, queue, jobID string) {
	r.mu.RLock()
	hooks := r.dropped
	r.mu.RUnlock()
	for _, e := range hooks {
		r.report("OnJobDropped", e.name, e.hook.OnJobDropped(ctx, queue, jobID))
	}
}

// EmitShutdown notifies Shutdown hooks.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	hooks := r.shutdown
	r.mu.RUnlock()
	for _, e := range hooks {
		r.report("OnShutdown", e.name, e.hook.OnShutdown(ctx))
	}
}

// report logs a hook error. Hook errors never reach the queue loop.
func (r *Registry) report(hook, name string, err error) {
	if err == nil {
		return
	}
	r.logger.Warn("extension hook error",
		slog.String("hook", hook),
		slog.String("extension", name),
		slog.String("error", err.Error()),
	)
}
