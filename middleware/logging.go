package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/NitinDahiya199/higgsfield.ai/job"
)

// Logging logs the start and outcome of every handler call.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, j *job.Job, next Handler) error {
		logger.Info("processing job",
			slog.String("job_id", j.ID),
			slog.String("queue", j.Queue),
		)

		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("job failed",
				slog.String("job_id", j.ID),
				slog.String("queue", j.Queue),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
			return err
		}
		logger.Info("job completed",
			slog.String("job_id", j.ID),
			slog.String("queue", j.Queue),
			slog.Duration("elapsed", elapsed),
		)
		return nil
	}
}
