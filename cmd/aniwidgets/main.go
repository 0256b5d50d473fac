package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var opts rootOptions
	root := &cobra.Command{
		Use:           "aniwidgets",
		Short:         "Animated widget timelines and instance scheduling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.addFlags(root)

	root.AddCommand(newServeCmd(&opts))
	root.AddCommand(newHostCmd(&opts))
	root.AddCommand(newTimelineCmd(&opts))
	root.AddCommand(newStartCmd(&opts))
	root.AddCommand(newCompleteCmd(&opts))
	root.AddCommand(newFeaturedCmd(&opts))
	root.AddCommand(newDesignsCmd(&opts))
	root.AddCommand(newInstancesCmd(&opts))
	root.AddCommand(newCleanupCmd(&opts))
	root.AddCommand(newStatsCmd(&opts))
	root.AddCommand(newSignalsCmd(&opts))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
