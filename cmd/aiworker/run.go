package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	higgsfield "github.com/NitinDahiya199/higgsfield.ai"
	"github.com/NitinDahiya199/higgsfield.ai/backoff"
	"github.com/NitinDahiya199/higgsfield.ai/conn"
	"github.com/NitinDahiya199/higgsfield.ai/job"
	"github.com/NitinDahiya199/higgsfield.ai/middleware"
	"github.com/NitinDahiya199/higgsfield.ai/observability"
	"github.com/NitinDahiya199/higgsfield.ai/queue"
	"github.com/NitinDahiya199/higgsfield.ai/worker"
)

const healthInterval = 30 * time.Second

func newRunCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Consume jobs until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, l, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			slog.SetDefault(l)
			return runWorker(ctx, cfg, l)
		},
	}
}

// runWorker serves cfg.Worker.Queues until ctx is done, then drains.
func runWorker(ctx context.Context, cfg *higgsfield.Config, l *slog.Logger) error {
	mgr, err := connect(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer mgr.Close()

	consumer, err := newConsumer(mgr, cfg, l)
	if err != nil {
		return err
	}

	// Loops outlive the signal context; Shutdown ends them.
	if err := consumer.Start(context.WithoutCancel(ctx)); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownTimeout)
		defer cancel()
		return consumer.Shutdown(sctx)
	})
	g.Go(func() error {
		watchConnection(gctx, mgr, l)
		return nil
	})
	return g.Wait()
}

func newConsumer(mgr *conn.Manager, cfg *higgsfield.Config, l *slog.Logger) (*worker.Consumer, error) {
	metrics, err := observability.NewMetricsExtension()
	if err != nil {
		return nil, err
	}

	limits := make([]queue.Config, 0, len(cfg.Worker.RateLimits))
	for _, rl := range cfg.Worker.RateLimits {
		limits = append(limits, queue.Config{Name: rl.Queue, Rate: rl.Rate, Burst: rl.Burst})
	}

	c := worker.New(mgr,
		worker.WithLogger(l),
		worker.WithKeyspace(job.NewKeyspace(cfg.Worker.KeyPrefix)),
		worker.WithPollTimeout(cfg.Worker.PollTimeout),
		worker.WithErrorBackoff(backoff.NewConstant(cfg.Worker.ErrorBackoff)),
		worker.WithHandlerTimeout(cfg.Worker.HandlerTimeout),
		worker.WithRateLimiter(queue.NewLimiter(limits...)),
		worker.WithExtensions(metrics),
		worker.WithMiddleware(
			middleware.Recover(l),
			middleware.Tracing(),
			middleware.Metrics(),
			middleware.Logging(l),
		),
	)
	registerStepHandlers(c, cfg.Worker.Queues, l)
	return c, nil
}

// watchConnection logs when Redis becomes unreachable or recovers.
func watchConnection(ctx context.Context, mgr *conn.Manager, l *slog.Logger) {
	t := time.NewTicker(healthInterval)
	defer t.Stop()

	healthy := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		ok := mgr.IsConnected(ctx)
		switch {
		case healthy && !ok:
			l.Warn("redis connection lost", slog.String("addr", mgr.Addr()))
		case !healthy && ok:
			l.Info("redis connection restored", slog.String("addr", mgr.Addr()))
		}
		healthy = ok
	}
}
