package main

import (
	"fmt"

	"github.com/GriffinCanCode/AniWidgets/internal/shared/types"
	"github.com/spf13/cobra"
)

func newTimelineCmd(opts *rootOptions) *cobra.Command {
	var family string
	cmd := &cobra.Command{
		Use:   "timeline <kind>",
		Short: "Print the timeline a host would receive for a widget kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pc := types.PlacementContext{Kind: args[0], Family: family}
			if _, err := pc.Slot(); err != nil {
				return err
			}

			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			tl := c.Provider.Timeline(contextOf(cmd), pc)
			out := cmd.OutOrStdout()
			if opts.json() {
				return printJSON(out, tl)
			}

			fmt.Fprintf(out, "policy: %s\n", tl.Policy)
			tw := newTable(out, "DATE", "FRAME", "ANIMATING", "DESIGN", "INSTANCE")
			for _, e := range tl.Entries {
				fmt.Fprintf(tw, "%s\t%d\t%t\t%s\t%s\n",
					e.Date.Format("2006-01-02T15:04:05.000Z07:00"), e.FrameIndex, e.IsAnimating, e.DesignID, e.InstanceID)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&family, "family", "small", "widget family")
	return cmd
}

func newStartCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start <instanceId>",
		Short: "Start an instance's animation and signal its host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			ok := c.Provider.StartAnimation(contextOf(cmd), args[0])
			return report(cmd, opts, ok, args[0], "started", "not started (unknown or already animating)")
		},
	}
}

func newCompleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <instanceId>",
		Short: "Persist the end of a finished animation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			ok := c.Provider.CompleteAnimation(contextOf(cmd), args[0])
			return report(cmd, opts, ok, args[0], "completed", "nothing to complete")
		},
	}
}

// report prints the outcome of a boolean operation on one object
func report(cmd *cobra.Command, opts *rootOptions, ok bool, id, yes, no string) error {
	out := cmd.OutOrStdout()
	if opts.json() {
		return printJSON(out, map[string]interface{}{"success": ok, "id": id})
	}
	msg := no
	if ok {
		msg = yes
	}
	_, err := fmt.Fprintf(out, "%s: %s\n", id, msg)
	return err
}
