package main

import (
	"fmt"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/shared/types"
	"github.com/spf13/cobra"
)

func newInstancesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "instances", Short: "Inspect widget instances"}
	cmd.AddCommand(newInstancesListCmd(opts))
	cmd.AddCommand(newInstancesShowCmd(opts))
	cmd.AddCommand(newInstancesDeleteCmd(opts))
	cmd.AddCommand(newInstancesForgetCmd(opts))
	return cmd
}

func newInstancesListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List persisted instances",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			list, err := c.Instances.List(contextOf(cmd))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.json() {
				return printJSON(out, list)
			}
			tw := newTable(out, "INSTANCE", "DESIGN", "FRAME", "STATE", "LAST INTERACTION")
			for _, inst := range list {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
					inst.InstanceID, inst.DesignID, inst.CurrentFrame, inst.State(), inst.LastInteraction.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
}

func newInstancesShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <instanceId>",
		Short: "Print one instance document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := contextOf(cmd)
			inst, ok := c.Instances.Load(ctx, args[0])
			if !ok {
				return fmt.Errorf("instance %s not found", args[0])
			}
			slot, bound := c.Slots.SlotOf(ctx, inst.InstanceID)
			if !bound {
				slot = -1
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"instance": inst,
				"slot":     slot,
			})
		},
	}
}

func newInstancesDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <instanceId>",
		Short: "Delete an instance document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Instances.Delete(contextOf(cmd), args[0]); err != nil {
				return err
			}
			return report(cmd, opts, true, args[0], "deleted", "")
		},
	}
}

func newInstancesForgetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <kind>",
		Short: "Unbind a slot so its next timeline starts a fresh instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := types.SlotForKind(args[0])
			if err != nil {
				return err
			}
			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := contextOf(cmd)
			if err := c.Slots.Forget(ctx, slot); err != nil {
				return err
			}
			if err := c.Signals.Reload(ctx, args[0], "slot forgotten", ""); err != nil {
				return err
			}
			return report(cmd, opts, true, args[0], "forgotten", "")
		},
	}
}
