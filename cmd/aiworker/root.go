package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	higgsfield "github.com/NitinDahiya199/higgsfield.ai"
	"github.com/NitinDahiya199/higgsfield.ai/config"
	"github.com/NitinDahiya199/higgsfield.ai/conn"
	"github.com/NitinDahiya199/higgsfield.ai/logger"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "aiworker",
		Short:         "Higgsfield AI job queue worker",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default ./aiworker.yaml if present)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override log.level: debug|info|warn|error")

	root.AddCommand(
		newRunCommand(opts),
		newPingCommand(opts),
		newStatsCommand(opts),
		newEnqueueCommand(opts),
		newFailedCommand(opts),
	)
	return root
}

// load reads the config and builds the logger, which writes to w.
func (o *rootOptions) load(w io.Writer) (*higgsfield.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	l, err := logger.New(cfg.Log, w)
	if err != nil {
		return nil, nil, err
	}
	return cfg, l, nil
}

func connect(ctx context.Context, cfg *higgsfield.Config, l *slog.Logger) (*conn.Manager, error) {
	mgr, err := conn.Connect(ctx, cfg.Redis.URL, cfg.Redis.ConnectTimeout, cfg.Redis.OpTimeout, conn.WithLogger(l))
	if err != nil {
		l.Error("could not connect to redis", slog.String("error", err.Error()))
		return nil, err
	}
	return mgr, nil
}
