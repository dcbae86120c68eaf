package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NitinDahiya199/higgsfield.ai/dlq"
	"github.com/NitinDahiya199/higgsfield.ai/job"
)

func newFailedCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "failed",
		Short: "Inspect and replay failed jobs",
	}
	cmd.AddCommand(newFailedListCommand(opts), newFailedReplayCommand(opts))
	return cmd
}

func newFailedListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list QUEUE",
		Short: "List failed jobs, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := opts.dlqService(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			entries, err := svc.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, e := range entries {
				if err := enc.Encode(e); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newFailedReplayCommand(opts *rootOptions) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "replay QUEUE [JOB_ID...]",
		Short: "Move failed jobs back onto the wait list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) < 2 {
				return errors.New("give job ids or --all")
			}
			svc, closeFn, err := opts.dlqService(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			queueName := args[0]
			if all {
				n, err := svc.ReplayAll(cmd.Context(), queueName)
				fmt.Fprintf(cmd.OutOrStdout(), "replayed %d\n", n)
				return err
			}
			for _, jobID := range args[1:] {
				if err := svc.Replay(cmd.Context(), queueName, jobID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "replayed %s\n", jobID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Replay every failed job of the queue")
	return cmd
}

func (o *rootOptions) dlqService(cmd *cobra.Command) (*dlq.Service, func(), error) {
	cfg, l, err := o.load(cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	mgr, err := connect(cmd.Context(), cfg, l)
	if err != nil {
		return nil, nil, err
	}
	return dlq.NewService(mgr, job.NewKeyspace(cfg.Worker.KeyPrefix)), func() { _ = mgr.Close() }, nil
}
