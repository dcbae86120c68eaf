package queue

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// Config sets the poll rate for one queue.
type Config struct {
	// Name is the queue name as registered with the consumer.
	Name string

	// Rate is the sustained number of polls per second. Zero or less
	// disables limiting for the queue.
	Rate float64

	// Burst is the token-bucket size. Defaults to 1 when Rate is set.
	Burst int
}

// Limiter gates each queue's poll with a token bucket. Queues without a
// Config pass straight through. Safe for concurrent use.
type Limiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
}

// NewLimiter returns a Limiter for configs.
func NewLimiter(configs ...Config) *Limiter {
	l := &Limiter{limiters: make(map[string]*rate.Limiter, len(configs))}
	for _, c := range configs {
		l.Set(c)
	}
	return l
}

// Set installs or replaces the limit for c.Name. A non-positive rate
// removes it.
func (l *Limiter) Set(c Config) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if c.Rate <= 0 {
		delete(l.limiters, c.Name)
		return
	}
	burst := c.Burst
	if burst <= 0 {
		burst = 1
	}
	l.limiters[c.Name] = rate.NewLimiter(rate.Limit(c.Rate), burst)
}

// Limited reports whether queue has a limit installed.
func (l *Limiter) Limited(queue string) bool {
	return l.get(queue) != nil
}

// Wait blocks until queue may poll again or ctx is done.
func (l *Limiter) Wait(ctx context.Context, queue string) error {
	lim := l.get(queue)
	if lim == nil {
		return ctx.Err()
	}
	if err := lim.Wait(ctx); err != nil {
		return fmt.Errorf("queue %s: rate wait: %w", queue, err)
	}
	return nil
}

// Allow reports whether queue may poll now, consuming a token if so.
func (l *Limiter) Allow(queue string) bool {
	lim := l.get(queue)
	return lim == nil || lim.Allow()
}

func (l *Limiter) get(queue string) *rate.Limiter {
	if l == nil {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.limiters[queue]
}
