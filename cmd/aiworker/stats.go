package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/NitinDahiya199/higgsfield.ai/job"
	"github.com/NitinDahiya199/higgsfield.ai/worker"
)

func newStatsCommand(opts *rootOptions) *cobra.Command {
	var (
		queues []string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print wait/active/completed/failed counts per queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, l, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			mgr, err := connect(cmd.Context(), cfg, l)
			if err != nil {
				return err
			}
			defer mgr.Close()

			if len(queues) == 0 {
				queues = cfg.Worker.Queues
			}
			stats, err := worker.CollectStats(cmd.Context(), mgr, job.NewKeyspace(cfg.Worker.KeyPrefix), queues)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "QUEUE\tWAIT\tACTIVE\tCOMPLETED\tFAILED")
			for _, s := range stats {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", s.Queue, s.Wait, s.Active, s.Completed, s.Failed)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringSliceVarP(&queues, "queue", "q", nil, "Queues to report (default worker.queues)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}
