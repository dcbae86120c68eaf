package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NitinDahiya199/higgsfield.ai/job"
	"github.com/NitinDahiya199/higgsfield.ai/producer"
)

func newEnqueueCommand(opts *rootOptions) *cobra.Command {
	var jobID string
	cmd := &cobra.Command{
		Use:   "enqueue QUEUE [PAYLOAD_JSON]",
		Short: "Store a payload and append its job id to the queue's wait list",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := json.RawMessage(`{}`)
			if len(args) == 2 {
				payload = json.RawMessage(args[1])
			}

			cfg, l, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			mgr, err := connect(cmd.Context(), cfg, l)
			if err != nil {
				return err
			}
			defer mgr.Close()

			id, err := producer.New(mgr, job.NewKeyspace(cfg.Worker.KeyPrefix)).Enqueue(cmd.Context(), args[0], jobID, payload)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&jobID, "id", "", "Job id (default a random UUID); wait, active, completed and failed are reserved")
	return cmd
}
