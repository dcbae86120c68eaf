package worker

import (
	"log/slog"
	"time"

	"github.com/NitinDahiya199/higgsfield.ai/backoff"
	"github.com/NitinDahiya199/higgsfield.ai/ext"
	"github.com/NitinDahiya199/higgsfield.ai/job"
	"github.com/NitinDahiya199/higgsfield.ai/middleware"
	"github.com/NitinDahiya199/higgsfield.ai/queue"
)

// DefaultPollTimeout is how long a queue loop blocks on BLPOP before
// checking whether it should stop.
const DefaultPollTimeout = time.Second

// Option configures a Consumer.
type Option func(*Consumer)

// WithPollTimeout sets the BLPOP timeout. It bounds how long Stop takes to
// be observed by an idle loop. Redis rounds sub-second values up to 1s.
func WithPollTimeout(d time.Duration) Option {
	return func(c *Consumer) {
		if d > 0 {
			c.pollTimeout = d
		}
	}
}

// WithErrorBackoff sets the pause strategy applied after a store error in
// a queue loop. The default pauses one second every time.
func WithErrorBackoff(s backoff.Strategy) Option {
	return func(c *Consumer) {
		if s != nil {
			c.errBackoff = s
		}
	}
}

// WithHandlerTimeout bounds every handler call. Zero, the default, leaves
// handlers unbounded.
func WithHandlerTimeout(d time.Duration) Option {
	return func(c *Consumer) { c.handlerTimeout = d }
}

// WithMiddleware replaces the default Recover and Logging chain. The
// first middleware runs outermost.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(c *Consumer) {
		c.mws = append([]middleware.Middleware(nil), mws...)
		c.customMW = true
	}
}

// WithExtensions registers lifecycle extensions.
func WithExtensions(exts ...ext.Extension) Option {
	return func(c *Consumer) { c.exts = append(c.exts, exts...) }
}

// WithRateLimiter throttles each queue's polls.
func WithRateLimiter(l *queue.Limiter) Option {
	return func(c *Consumer) { c.limiter = l }
}

// WithLogger sets the consumer's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Consumer) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithKeyspace sets the Redis key convention. Default "bull".
func WithKeyspace(k job.Keyspace) Option {
	return func(c *Consumer) { c.keys = k }
}
