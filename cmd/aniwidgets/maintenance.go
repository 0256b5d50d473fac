package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newCleanupCmd(opts *rootOptions) *cobra.Command {
	var retention time.Duration
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Purge instances untouched for longer than the retention",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			if retention <= 0 {
				retention = c.Config.Retention.Instances
			}
			res, err := c.Instances.Purge(contextOf(cmd), retention)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.json() {
				return printJSON(out, res)
			}
			_, err = fmt.Fprintf(out, "scanned %d, purged %d, corrupt %d, failed %d, kept %d\n",
				res.Scanned, len(res.Purged), len(res.Corrupt), len(res.Failed), res.Kept)
			return err
		},
	}
	cmd.Flags().DurationVar(&retention, "retention", 0, "override ANIWIDGETS_INSTANCE_RETENTION")
	return cmd
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize instances, slots and disk usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := contextOf(cmd)
			stats, err := c.Instances.Stats(ctx)
			if err != nil {
				return err
			}
			slots := c.Slots.Assignments(ctx)
			out := cmd.OutOrStdout()
			if opts.json() {
				return printJSON(out, map[string]interface{}{"instances": stats, "slots": slots})
			}

			fmt.Fprintf(out, "instances: %d (%d animating), %d bytes on disk\n", stats.Total, stats.Animating, stats.DiskBytes)
			for _, d := range stats.DesignIDs {
				fmt.Fprintf(out, "  %s: %d\n", d, stats.ByDesign[d])
			}
			for _, a := range slots {
				fmt.Fprintf(out, "slot %d -> %s\n", a.Slot, a.InstanceID)
			}
			return nil
		},
	}
}
