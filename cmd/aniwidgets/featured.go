package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFeaturedCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "featured", Short: "Manage the featured designs"}
	cmd.AddCommand(newFeaturedListCmd(opts))
	cmd.AddCommand(newFeaturedAddCmd(opts))
	cmd.AddCommand(newFeaturedRemoveCmd(opts))
	cmd.AddCommand(newFeaturedReorderCmd(opts))
	return cmd
}

func newFeaturedListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List featured designs in slot order",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			reg := c.Featured.Load(contextOf(cmd))
			out := cmd.OutOrStdout()
			if opts.json() {
				return printJSON(out, reg)
			}
			tw := newTable(out, "SLOT", "DESIGN")
			for i, d := range reg.Designs {
				fmt.Fprintf(tw, "%d\t%s\n", i, d)
			}
			return tw.Flush()
		},
	}
}

func newFeaturedAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <designId>",
		Short: "Feature a design in the next free slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			ok := c.Featured.AddDesign(contextOf(cmd), args[0])
			return report(cmd, opts, ok, args[0], "featured", "not added (already featured, registry full or invalid id)")
		},
	}
}

func newFeaturedRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <designId>",
		Short: "Remove a design from the featured slots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			ok := c.Featured.RemoveDesign(contextOf(cmd), args[0])
			return report(cmd, opts, ok, args[0], "removed", "not featured")
		},
	}
}

func newFeaturedReorderCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <designId>...",
		Short: "Set the slot order of the featured designs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := contextOf(cmd)
			if !c.Featured.Reorder(ctx, args) {
				return fmt.Errorf("failed to save featured order")
			}
			reg := c.Featured.Load(ctx)
			if opts.json() {
				return printJSON(cmd.OutOrStdout(), reg)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "order: %v\n", reg.Designs)
			return err
		},
	}
}
