package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/shared/types"
	"github.com/spf13/cobra"
)

func newHostCmd(opts *rootOptions) *cobra.Command {
	var (
		kinds    []string
		family   string
		duration time.Duration
	)
	cmd := &cobra.Command{
		Use:   "host",
		Short: "Run a reference widget host that prints every render",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, k := range kinds {
				if _, err := types.SlotForKind(k); err != nil {
					return err
				}
			}

			c, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()
			var mu sync.Mutex
			render := func(kind string, e types.TimelineEntry, image []byte) {
				mu.Lock()
				defer mu.Unlock()
				design := e.DesignID
				if design == "" {
					design = "-"
				}
				fmt.Fprintf(out, "%s\t%s\tslot=%d\tdesign=%s\tframe=%02d\tanimating=%t\tbytes=%d\n",
					time.Now().Format("15:04:05.000"), kind, e.SlotIndex, design, e.FrameIndex, e.IsAnimating, len(image))
			}

			maintenance, err := c.Maintenance()
			if err != nil {
				return err
			}
			maintenance.Start()
			defer maintenance.Stop()

			ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			return c.Host(render, family, kinds).Run(ctx)
		},
	}
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "widget kinds to drive (default: all)")
	cmd.Flags().StringVar(&family, "family", "small", "widget family")
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (default: until interrupted)")
	return cmd
}
