package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPingCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that Redis is reachable",
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

			if !mgr.IsConnected(cmd.Context()) {
				return fmt.Errorf("redis at %s is not responding", mgr.Addr())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "PONG from %s\n", mgr.Addr())
			return nil
		},
	}
}
