// Package backoff decides how long the consumer loop pauses after a
// failed iteration. Strategies are stateless and safe for concurrent use;
// the caller tracks the number of consecutive failures.
package backoff

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// DefaultPause is the loop pause used when no strategy is configured.
const DefaultPause = time.Second

// Strategy maps a count of consecutive loop failures to a pause.
type Strategy interface {
	// Delay returns the pause after the n-th consecutive failure (1-indexed).
	Delay(failures int) time.Duration
}

// Func adapts a plain function to a Strategy.
type Func func(failures int) time.Duration

// Delay calls f.
func (f Func) Delay(failures int) time.Duration { return f(failures) }

// Constant pauses for the same interval after every failure.
type Constant struct {
	Interval time.Duration
}

// NewConstant returns a Constant strategy.
func NewConstant(interval time.Duration) *Constant {
	return &Constant{Interval: interval}
}

// Delay returns the fixed interval.
func (c *Constant) Delay(int) time.Duration { return c.Interval }

// Linear grows the pause by Step for each consecutive failure, capped at Max.
type Linear struct {
	Step time.Duration
	Max  time.Duration
}

// NewLinear returns a Linear strategy.
func NewLinear(step, maxDelay time.Duration) *Linear {
	return &Linear{Step: step, Max: maxDelay}
}

// Delay returns Step * failures, capped at Max.
func (l *Linear) Delay(failures int) time.Duration {
	return capped(l.Step*time.Duration(clampFailures(failures)), l.Max)
}

// Exponential doubles the pause for each consecutive failure.
// With Jitter set the result is drawn uniformly from [0, delay].
type Exponential struct {
	Initial time.Duration
	Max     time.Duration
	Jitter  bool
}

// NewExponential returns an Exponential strategy without jitter.
func NewExponential(initial, maxDelay time.Duration) *Exponential {
	return &Exponential{Initial: initial, Max: maxDelay}
}

// NewExponentialWithJitter returns an Exponential strategy with full jitter.
func NewExponentialWithJitter(initial, maxDelay time.Duration) *Exponential {
	return &Exponential{Initial: initial, Max: maxDelay, Jitter: true}
}

// Delay returns Initial * 2^(failures-1), capped at Max.
func (e *Exponential) Delay(failures int) time.Duration {
	n := clampFailures(failures)
	raw := float64(e.Initial) * math.Pow(2, float64(n-1))
	if raw > math.MaxInt64 {
		raw = math.MaxInt64
	}
	d := capped(time.Duration(raw), e.Max)
	if e.Jitter && d > 0 {
		return time.Duration(rand.Int64N(int64(d) + 1)) //nolint:gosec // jitter does not need crypto rand
	}
	return d
}

// Default returns the strategy the consumer uses out of the box: a
// constant one-second pause.
func Default() Strategy {
	return NewConstant(DefaultPause)
}

// Sleep blocks for d or until ctx is done, whichever comes first. It
// returns ctx.Err() when the context ended the wait.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func clampFailures(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func capped(d, maxDelay time.Duration) time.Duration {
	if maxDelay > 0 && d > maxDelay {
		return maxDelay
	}
	return d
}
