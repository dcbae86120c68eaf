package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	higgsfield "github.com/NitinDahiya199/higgsfield.ai"
	"github.com/NitinDahiya199/higgsfield.ai/ext"
	"github.com/NitinDahiya199/higgsfield.ai/job"
	"github.com/NitinDahiya199/higgsfield.ai/middleware"
)

// Executor takes a popped job id through claim, dispatch and filing.
//
// Outcomes per id:
//   - payload key missing or id reserved: dropped, no list is touched
//   - no handler, undecodable payload, handler error or panic: failed
//   - handler returned nil: completed
//
// Only store errors are returned; job-level failures are recorded on the
// failed list and reported to extensions.
type Executor struct {
	store      job.Store
	registry   *job.Registry
	extensions *ext.Registry
	keys       job.Keyspace
	mw         middleware.Middleware
	logger     *slog.Logger

	activeMu sync.Mutex
	active   map[*job.Job]context.CancelFunc
}

// NewExecutor returns an Executor that runs handlers through mws.
func NewExecutor(
	store job.Store,
	registry *job.Registry,
	extensions *ext.Registry,
	keys job.Keyspace,
	logger *slog.Logger,
	mws ...middleware.Middleware,
) *Executor {
	if extensions == nil {
		extensions = ext.NewRegistry(logger)
	}
	return &Executor{
		store:      store,
		registry:   registry,
		extensions: extensions,
		keys:       keys,
		mw:         middleware.Chain(mws...),
		logger:     logger,
		active:     make(map[*job.Job]context.CancelFunc),
	}
}

// Process handles jobID, freshly popped from queueName's wait list.
func (e *Executor) Process(ctx context.Context, queueName, jobID string) error {
	if e.keys.Reserved(jobID) {
		e.logger.Warn("reserved job id, dropping job",
			slog.String("queue", queueName),
			slog.String("job_id", jobID),
		)
		e.extensions.EmitJobDropped(ctx, queueName, jobID)
		return nil
	}

	raw, err := e.store.Fetch(ctx, e.keys.Payload(queueName, jobID))
	if errors.Is(err, higgsfield.ErrPayloadNotFound) {
		e.logger.Warn("job payload missing, dropping job",
			slog.String("queue", queueName),
			slog.String("job_id", jobID),
		)
		e.extensions.EmitJobDropped(ctx, queueName, jobID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch payload of job %s: %w", jobID, err)
	}

	if err := e.store.Push(ctx, e.keys.Active(queueName), jobID); err != nil {
		return fmt.Errorf("claim job %s: %w", jobID, err)
	}
	j := &job.Job{ID: jobID, Queue: queueName, Raw: raw, ClaimedAt: time.Now().UTC()}
	e.extensions.EmitJobClaimed(ctx, j)

	// Filing must survive the loop context being cancelled mid-handler.
	fileCtx := context.WithoutCancel(ctx)

	h, ok := e.registry.Get(queueName)
	if !ok {
		e.logger.Warn("no handler registered for queue",
			slog.String("queue", queueName),
			slog.String("job_id", jobID),
		)
		return e.fail(fileCtx, j, fmt.Errorf("%w: %s", higgsfield.ErrNoHandler, queueName))
	}

	payload, err := job.DecodePayload(raw)
	if err != nil {
		e.logger.Warn("job payload rejected",
			slog.String("queue", queueName),
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return e.fail(fileCtx, j, err)
	}
	j.Payload = payload

	start := time.Now()
	if err := e.run(ctx, h, j); err != nil {
		return e.fail(fileCtx, j, err)
	}
	return e.complete(fileCtx, j, time.Since(start))
}

func (e *Executor) run(ctx context.Context, h job.Handler, j *job.Job) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.activeMu.Lock()
	e.active[j] = cancel
	e.activeMu.Unlock()
	defer func() {
		e.activeMu.Lock()
		delete(e.active, j)
		e.activeMu.Unlock()
	}()

	return middleware.Invoke(ctx, e.mw, h, j)
}

func (e *Executor) complete(ctx context.Context, j *job.Job, elapsed time.Duration) error {
	if err := e.file(ctx, j, e.keys.Completed(j.Queue)); err != nil {
		return err
	}
	e.extensions.EmitJobCompleted(ctx, j, elapsed)
	return nil
}

func (e *Executor) fail(ctx context.Context, j *job.Job, cause error) error {
	if err := e.file(ctx, j, e.keys.Failed(j.Queue)); err != nil {
		return err
	}
	e.extensions.EmitJobFailed(ctx, j, cause)
	return nil
}

// file pushes the id onto its terminal list, then takes it off active.
func (e *Executor) file(ctx context.Context, j *job.Job, terminal string) error {
	if err := e.store.Push(ctx, terminal, j.ID); err != nil {
		return fmt.Errorf("file job %s on %s: %w", j.ID, terminal, err)
	}
	if _, err := e.store.RemoveOne(ctx, e.keys.Active(j.Queue), j.ID); err != nil {
		return fmt.Errorf("release job %s from active: %w", j.ID, err)
	}
	return nil
}

func (e *Executor) cancelActive() {
	e.activeMu.Lock()
	defer e.activeMu.Unlock()
	for j, cancel := range e.active {
		e.logger.Warn("cancelling in-flight job",
			slog.String("queue", j.Queue),
			slog.String("job_id", j.ID),
		)
		cancel()
	}
}
