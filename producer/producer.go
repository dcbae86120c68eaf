// Package producer enqueues jobs in the layout the consumer reads: the
// JSON payload under "<prefix>:<queue>:<id>" and the id appended to
// "<prefix>:<queue>:wait".
package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/NitinDahiya199/higgsfield.ai/job"
)

var (
	// ErrEmptyQueue is returned when Enqueue is called without a queue name.
	ErrEmptyQueue = errors.New("producer: queue name is required")

	// ErrReservedJobID is returned for a job id naming one of the queue's
	// state lists (wait, active, completed, failed).
	ErrReservedJobID = errors.New("producer: job id is reserved")
)

// Backend is the write side of the store. conn.Manager and
// store/memory.Store implement it.
type Backend interface {
	SetPayload(ctx context.Context, key, value string) error
	Append(ctx context.Context, key, member string) error
}

// Producer writes jobs for consumers to pick up.
type Producer struct {
	backend Backend
	keys    job.Keyspace
}

// New returns a Producer writing through backend under keys.
func New(backend Backend, keys job.Keyspace) *Producer {
	return &Producer{backend: backend, keys: keys}
}

// Enqueue stores payload for jobID and appends the id to the queue's wait
// list, in that order, so a consumer never pops an id without a payload.
// An empty jobID is replaced by a random UUID. The id used is returned.
func (p *Producer) Enqueue(ctx context.Context, queueName, jobID string, payload any) (string, error) {
	if queueName == "" {
		return "", ErrEmptyQueue
	}
	if jobID == "" {
		jobID = uuid.NewString()
	}
	if p.keys.Reserved(jobID) {
		return "", fmt.Errorf("%w: %q", ErrReservedJobID, jobID)
	}

	raw, err := encode(payload)
	if err != nil {
		return "", fmt.Errorf("producer: encode payload of job %s: %w", jobID, err)
	}
	if err := p.backend.SetPayload(ctx, p.keys.Payload(queueName, jobID), raw); err != nil {
		return "", fmt.Errorf("producer: store payload of job %s: %w", jobID, err)
	}
	if err := p.backend.Append(ctx, p.keys.Wait(queueName), jobID); err != nil {
		return "", fmt.Errorf("producer: enqueue job %s: %w", jobID, err)
	}
	return jobID, nil
}

// encode passes raw JSON through untouched and marshals anything else.
func encode(payload any) (string, error) {
	switch v := payload.(type) {
	case json.RawMessage:
		if !json.Valid(v) {
			return "", errors.New("invalid JSON")
		}
		return string(v), nil
	case nil:
		return "{}", nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
