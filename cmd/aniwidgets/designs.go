package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDesignsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "designs", Short: "Manage animation designs"}
	cmd.AddCommand(newDesignsListCmd(opts))
	cmd.AddCommand(newDesignsProvisionCmd(opts))
	cmd.AddCommand(newDesignsRemoveCmd(opts))
	return cmd
}

func newDesignsListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List provisioned and bundled designs",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			designs := c.Catalog.List(contextOf(cmd))
			out := cmd.OutOrStdout()
			if opts.json() {
				return printJSON(out, designs)
			}
			tw := newTable(out, "ID", "NAME", "FRAMES", "INTERVAL", "SOURCE")
			for _, d := range designs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%.2fs\t%s\n", d.ID, d.Name, d.FrameCount, d.FrameInterval, d.Source)
			}
			return tw.Flush()
		},
	}
}

func newDesignsProvisionCmd(opts *rootOptions) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "provision <designId>...",
		Short: "Copy bundled designs into the shared container",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()
			for _, id := range args {
				progress := func(done, total int) {
					if !quiet && !opts.json() {
						fmt.Fprintf(cmd.ErrOrStderr(), "\r%s: %d/%d", id, done, total)
					}
				}
				design, err := c.Provisioner.Provision(contextOf(cmd), id, progress)
				if !quiet && !opts.json() {
					fmt.Fprintln(cmd.ErrOrStderr())
				}
				if err != nil {
					return err
				}
				if opts.json() {
					if err := printJSON(out, design); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintf(out, "%s: provisioned %d frames\n", design.ID, design.FrameCount)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "no progress output")
	return cmd
}

func newDesignsRemoveCmd(opts *rootOptions) *cobra.Command {
	var prune bool
	cmd := &cobra.Command{
		Use:   "remove <designId>...",
		Short: "Remove provisioned designs, or with --prune every design not featured",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !prune && len(args) == 0 {
				return fmt.Errorf("design id required (or --prune)")
			}
			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := contextOf(cmd)
			out := cmd.OutOrStdout()
			if prune {
				keep := append(c.Featured.Load(ctx).Designs, args...)
				n, err := c.Provisioner.Prune(ctx, keep)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "pruned %d designs\n", n)
				return err
			}

			for _, id := range args {
				if err := c.Provisioner.Remove(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: removed\n", id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&prune, "prune", false, "remove every design that is not featured (ids given are kept too)")
	return cmd
}
