package middleware

import (
	"context"
	"time"

	"github.com/NitinDahiya199/higgsfield.ai/job"
)

// Timeout bounds each handler call with d. A non-positive d disables it.
// The handler must honour ctx for the deadline to take effect.
func Timeout(d time.Duration) Middleware {
	return func(ctx context.Context, _ *job.Job, next Handler) error {
		if d <= 0 {
			return next(ctx)
		}
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next(ctx)
	}
}
