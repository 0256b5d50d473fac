package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/GriffinCanCode/AniWidgets/internal/app"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/config"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/logging"
	"github.com/spf13/cobra"
)

// rootOptions are the flags shared by every command. Flags override the
// environment.
type rootOptions struct {
	container string
	bundle    string
	mode      string
	output    string
	verbose   bool
}

func (o *rootOptions) addFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&o.container, "container", "", "shared container directory (ANIWIDGETS_CONTAINER_DIR)")
	f.StringVar(&o.bundle, "bundle", "", "design bundle directory (ANIWIDGETS_BUNDLE_DIR)")
	f.StringVar(&o.mode, "mode", "", "timeline mode: precomputed or stepped")
	f.StringVar(&o.output, "output", "table", "output format (table|json)")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")
}

func (o *rootOptions) config() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.container != "" {
		cfg.Container.Dir = o.container
	}
	if o.bundle != "" {
		cfg.Container.BundleDir = o.bundle
	}
	if o.mode != "" {
		cfg.Timeline.Mode = o.mode
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
		cfg.Logging.Development = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// open builds the services for one command invocation
func (o *rootOptions) open() (*app.Container, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	// Commands print results on stdout; only warnings belong on stderr.
	if !o.verbose && cfg.Logging.Level == "info" {
		cfg.Logging.Level = "warn"
	}
	return openWith(cfg)
}

func openWith(cfg *config.Config) (*app.Container, error) {
	logger, err := logging.New(logging.ProcessConfig(cfg.Logging.Level, cfg.Logging.Development))
	if err != nil {
		return nil, err
	}
	return app.New(cfg, app.WithLogger(logger))
}

func (o *rootOptions) json() bool {
	return o.output == "json"
}

func printJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, h := range header {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw)
	return tw
}
