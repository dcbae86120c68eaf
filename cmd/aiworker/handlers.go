package main

import (
	"context"
	"log/slog"

	"github.com/NitinDahiya199/higgsfield.ai/job"
	"github.com/NitinDahiya199/higgsfield.ai/worker"
)

// stepRequest is the payload the API enqueues for a pipeline step.
type stepRequest struct {
	ProjectID string         `json:"projectId"`
	StepID    string         `json:"stepId"`
	Prompt    string         `json:"prompt"`
	Params    map[string]any `json:"params"`
}

// registerStepHandlers binds an acknowledging handler to every queue. The
// model integrations plug in here.
func registerStepHandlers(c *worker.Consumer, queues []string, l *slog.Logger) {
	for _, q := range queues {
		c.Register(q, stepHandler(q, l))
	}
}

func stepHandler(queueName string, l *slog.Logger) job.Handler {
	return job.Typed(func(_ context.Context, req stepRequest) error {
		l.Info("step accepted",
			slog.String("queue", queueName),
			slog.String("project_id", req.ProjectID),
			slog.String("step_id", req.StepID),
			slog.Int("prompt_len", len(req.Prompt)),
		)
		return nil
	})
}
