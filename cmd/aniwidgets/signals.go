package main

import (
	"fmt"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/signal"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/types"
	"github.com/spf13/cobra"
)

func newSignalsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "signals",
		Short: "Show the last reload signal of every widget kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := contextOf(cmd)
			kinds := append([]string{types.KindAll}, types.SlotKinds()...)
			latest := make([]signal.Signal, 0, len(kinds))
			for _, kind := range kinds {
				if sig, ok := c.Signals.Latest(ctx, kind); ok {
					latest = append(latest, sig)
				}
			}

			out := cmd.OutOrStdout()
			if opts.json() {
				return printJSON(out, latest)
			}
			if len(latest) == 0 {
				_, err := fmt.Fprintln(out, "no signals raised")
				return err
			}
			tw := newTable(out, "KIND", "ISSUED", "REASON", "INSTANCE")
			for _, sig := range latest {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					sig.Kind, sig.IssuedAt.Format(time.RFC3339), sig.Reason, sig.InstanceID)
			}
			return tw.Flush()
		},
	}
}
