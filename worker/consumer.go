// Package worker consumes jobs from Redis lists. A Consumer runs one loop
// per registered queue; each loop claims a job with BLPOP, hands it to the
// queue's handler and files the id on the completed or failed list.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	higgsfield "github.com/NitinDahiya199/higgsfield.ai"
	"github.com/NitinDahiya199/higgsfield.ai/backoff"
	"github.com/NitinDahiya199/higgsfield.ai/ext"
	"github.com/NitinDahiya199/higgsfield.ai/id"
	"github.com/NitinDahiya199/higgsfield.ai/job"
	"github.com/NitinDahiya199/higgsfield.ai/middleware"
	"github.com/NitinDahiya199/higgsfield.ai/queue"
)

// Consumer polls the wait list of every registered queue and dispatches
// claimed jobs to their handlers.
type Consumer struct {
	store      job.Store
	registry   *job.Registry
	extensions *ext.Registry
	executor   *Executor
	limiter    *queue.Limiter
	keys       job.Keyspace
	logger     *slog.Logger
	id         id.ID

	pollTimeout    time.Duration
	handlerTimeout time.Duration
	errBackoff     backoff.Strategy
	mws            []middleware.Middleware
	customMW       bool
	exts           []ext.Extension

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	queues  []string
	wg      sync.WaitGroup
}

// New returns a Consumer that reads and writes through store.
func New(store job.Store, opts ...Option) *Consumer {
	c := &Consumer{
		store:       store,
		registry:    job.NewRegistry(),
		keys:        job.DefaultKeyspace(),
		logger:      slog.Default(),
		id:          id.NewConsumerID(),
		pollTimeout: DefaultPollTimeout,
		errBackoff:  backoff.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("consumer_id", c.id.String()))

	c.extensions = ext.NewRegistry(c.logger)
	for _, e := range c.exts {
		c.extensions.Register(e)
	}

	mws := c.mws
	if !c.customMW {
		mws = []middleware.Middleware{middleware.Recover(c.logger), middleware.Logging(c.logger)}
	}
	if c.handlerTimeout > 0 {
		mws = append(mws, middleware.Timeout(c.handlerTimeout))
	}
	c.executor = NewExecutor(store, c.registry, c.extensions, c.keys, c.logger, mws...)
	return c
}

// ID returns the consumer's instance id.
func (c *Consumer) ID() id.ID { return c.id }

// Register binds h to queue and reports whether it replaced an earlier
// handler. A nil h is logged and ignored. Queues registered after Start
// get no loop until the next Start.
func (c *Consumer) Register(queueName string, h job.Handler) (replaced bool) {
	if h == nil {
		c.logger.Error("nil handler ignored", slog.String("queue", queueName))
		return false
	}
	replaced = c.registry.Register(queueName, h)
	if replaced {
		c.logger.Warn("handler replaced", slog.String("queue", queueName))
	} else {
		c.logger.Info("handler registered", slog.String("queue", queueName))
	}
	return replaced
}

// Queues returns the registered queue names, sorted.
func (c *Consumer) Queues() []string { return c.registry.Queues() }

// Running reports whether the consumer has been started and not stopped.
func (c *Consumer) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Start launches one loop per registered queue and returns once they are
// spawned. Loops use ctx for store calls and exit when it is done. Calling
// Start on a running consumer does nothing.
func (c *Consumer) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		c.logger.Warn("consumer already running")
		return nil
	}

	queues := c.registry.Queues()
	c.running = true
	c.stopCh = make(chan struct{})
	c.queues = queues

	c.logger.Info("consumer starting", slog.Any("queues", queues))

	for _, q := range queues {
		c.wg.Add(1)
		go c.loop(ctx, q, c.stopCh)
	}
	return nil
}

// Stop asks every loop to exit after its current poll or handler call.
// It does not wait; use Wait or Shutdown for that. Safe to call at any
// time and more than once.
func (c *Consumer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}
	c.running = false
	close(c.stopCh)
	c.logger.Info("consumer stopping")
}

// Wait blocks until every loop has exited. If ctx ends first, the contexts
// of in-flight handlers are cancelled and Wait returns ctx.Err() once the
// loops are gone.
func (c *Consumer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		c.logger.Warn("shutdown deadline reached, cancelling in-flight handlers")
		c.executor.cancelActive()
		<-done
		return ctx.Err()
	}
}

// Shutdown stops the consumer, waits for it to drain and notifies Shutdown
// extensions.
func (c *Consumer) Shutdown(ctx context.Context) error {
	c.Stop()
	err := c.Wait(ctx)
	c.extensions.EmitShutdown(context.WithoutCancel(ctx))
	c.logger.Info("consumer stopped")
	return err
}

// loop serves one queue until stop is closed or ctx is done.
func (c *Consumer) loop(ctx context.Context, queueName string, stop <-chan struct{}) {
	defer c.wg.Done()

	logger := c.logger.With(slog.String("queue", queueName))

	if err := c.store.Ping(ctx); err != nil {
		logger.Error("store unreachable, queue loop not started", slog.String("error", err.Error()))
		return
	}
	logger.Info("listening on queue", slog.String("key", c.keys.Wait(queueName)))

	failures := 0
	for {
		select {
		case <-stop:
			logger.Info("queue loop stopped")
			return
		case <-ctx.Done():
			logger.Info("queue loop cancelled")
			return
		default:
		}

		err := c.poll(ctx, queueName, stop)
		if err == nil || errors.Is(err, higgsfield.ErrNoJob) {
			failures = 0
			continue
		}
		if ctx.Err() != nil || closed(stop) {
			continue
		}

		failures++
		pause := c.errBackoff.Delay(failures)
		logger.Error("queue loop error",
			slog.String("error", err.Error()),
			slog.Int("consecutive_failures", failures),
			slog.Duration("pause", pause),
		)
		_ = backoff.Sleep(ctx, pause)
	}
}

// poll claims and processes at most one job from queueName.
func (c *Consumer) poll(ctx context.Context, queueName string, stop <-chan struct{}) error {
	if err := c.throttle(ctx, queueName, stop); err != nil {
		return err
	}
	jobID, err := c.store.BlockingPop(ctx, c.keys.Wait(queueName), c.pollTimeout)
	if err != nil {
		return err
	}
	return c.executor.Process(ctx, queueName, jobID)
}

// throttle waits for the queue's rate limiter. Unlike a poll or a handler
// call, the wait is abandoned as soon as stop is closed.
func (c *Consumer) throttle(ctx context.Context, queueName string, stop <-chan struct{}) error {
	if !c.limiter.Limited(queueName) {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-stop:
			cancel()
		case <-ctx.Done():
		}
	}()
	return c.limiter.Wait(ctx, queueName)
}

func closed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
