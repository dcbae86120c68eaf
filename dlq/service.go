package dlq

import (
	"context"
	"errors"
	"fmt"
	"slices"

	higgsfield "github.com/NitinDahiya199/higgsfield.ai"
	"github.com/NitinDahiya199/higgsfield.ai/job"
)

// ErrNotFailed is returned by Replay when the id is not on the failed list.
var ErrNotFailed = errors.New("dlq: job is not on the failed list")

// Backend is the store surface the service needs. conn.Manager and
// store/memory.Store implement it.
type Backend interface {
	Range(ctx context.Context, key string) ([]string, error)
	Fetch(ctx context.Context, key string) (string, error)
	RemoveOne(ctx context.Context, key, member string) (int64, error)
	Append(ctx context.Context, key, member string) error
}

// Entry is one failed job.
type Entry struct {
	JobID   string `json:"job_id"`
	Queue   string `json:"queue"`
	Payload string `json:"payload,omitempty"`

	// Missing is set when the payload key no longer exists. Such a job
	// would be dropped if replayed.
	Missing bool `json:"missing,omitempty"`
}

// Service inspects and replays failed jobs.
type Service struct {
	backend Backend
	keys    job.Keyspace
}

// NewService returns a Service over backend.
func NewService(backend Backend, keys job.Keyspace) *Service {
	return &Service{backend: backend, keys: keys}
}

// List returns the failed jobs of queue, most recently failed first.
func (s *Service) List(ctx context.Context, queue string) ([]Entry, error) {
	ids, err := s.backend.Range(ctx, s.keys.Failed(queue))
	if err != nil {
		return nil, fmt.Errorf("dlq: list %s: %w", queue, err)
	}

	entries := make([]Entry, 0, len(ids))
	for _, jobID := range ids {
		e := Entry{JobID: jobID, Queue: queue}
		if s.keys.Reserved(jobID) {
			e.Missing = true
			entries = append(entries, e)
			continue
		}
		raw, err := s.backend.Fetch(ctx, s.keys.Payload(queue, jobID))
		switch {
		case errors.Is(err, higgsfield.ErrPayloadNotFound):
			e.Missing = true
		case err != nil:
			return nil, fmt.Errorf("dlq: payload of %s: %w", jobID, err)
		default:
			e.Payload = raw
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Replay moves jobID from queue's failed list to the tail of its wait list.
// It returns ErrNotFailed when jobID is not on the failed list, including
// when a concurrent Replay took it first.
func (s *Service) Replay(ctx context.Context, queue, jobID string) error {
	return s.move(ctx, queue, jobID)
}

// ReplayAll replays every failed job of queue, oldest first, and returns
// how many were moved. Ids taken by a concurrent replay are skipped.
func (s *Service) ReplayAll(ctx context.Context, queue string) (int, error) {
	ids, err := s.backend.Range(ctx, s.keys.Failed(queue))
	if err != nil {
		return 0, fmt.Errorf("dlq: replay all %s: %w", queue, err)
	}
	n := 0
	for _, jobID := range slices.Backward(ids) {
		err := s.move(ctx, queue, jobID)
		if errors.Is(err, ErrNotFailed) {
			continue
		}
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// move appends jobID to wait only if this call removed it from failed.
func (s *Service) move(ctx context.Context, queue, jobID string) error {
	removed, err := s.backend.RemoveOne(ctx, s.keys.Failed(queue), jobID)
	if err != nil {
		return fmt.Errorf("dlq: release %s: %w", jobID, err)
	}
	if removed != 1 {
		return fmt.Errorf("%w: %s/%s", ErrNotFailed, queue, jobID)
	}
	if err := s.backend.Append(ctx, s.keys.Wait(queue), jobID); err != nil {
		return fmt.Errorf("dlq: requeue %s: %w", jobID, err)
	}
	return nil
}
