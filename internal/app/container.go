package app

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/domain/catalog"
	"github.com/GriffinCanCode/AniWidgets/internal/domain/featured"
	"github.com/GriffinCanCode/AniWidgets/internal/domain/frames"
	"github.com/GriffinCanCode/AniWidgets/internal/domain/instance"
	"github.com/GriffinCanCode/AniWidgets/internal/domain/provision"
	"github.com/GriffinCanCode/AniWidgets/internal/domain/slots"
	"github.com/GriffinCanCode/AniWidgets/internal/domain/timeline"
	"github.com/GriffinCanCode/AniWidgets/internal/domain/widget"
	"github.com/GriffinCanCode/AniWidgets/internal/host"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/config"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/signal"
	"github.com/GriffinCanCode/AniWidgets/internal/providers/storage"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/clock"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/paths"
	"go.uber.org/zap"
)

// Container holds every service of one process. Services keep no state of
// their own between calls, so building a container is cheap and processes
// sharing a container directory stay consistent.
type Container struct {
	Config  *config.Config
	Logger  *logging.Logger
	Metrics *monitoring.Metrics
	Clock   clock.Clock

	Store  *storage.FileStore
	Cache  *storage.FileStore
	Bundle fs.FS

	Instances   *instance.Repository
	Catalog     *catalog.Catalog
	Frames      *frames.Resolver
	Signals     *signal.Signaler
	Featured    *featured.Registry
	Slots       *slots.Resolver
	Scheduler   *timeline.Scheduler
	Provisioner *provision.Provisioner
	Provider    *widget.Provider
}

// Option customizes container construction
type Option func(*Container)

// WithLogger replaces the configured logger
func WithLogger(l *logging.Logger) Option {
	return func(c *Container) { c.Logger = l }
}

// WithClock replaces the system clock
func WithClock(clk clock.Clock) Option {
	return func(c *Container) { c.Clock = clk }
}

// WithMetrics replaces the metrics registry
func WithMetrics(m *monitoring.Metrics) Option {
	return func(c *Container) { c.Metrics = m }
}

// New builds a container from configuration
func New(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if c.Logger == nil {
		logger, err := logging.New(logging.ProcessConfig(cfg.Logging.Level, cfg.Logging.Development))
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		c.Logger = logger
	}
	if c.Metrics == nil {
		c.Metrics = monitoring.NewMetrics()
	}
	c.Clock = clock.OrSystem(c.Clock)
	log := c.Logger.Logger

	store, err := storage.NewFileStore(cfg.Container.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open container: %w", err)
	}
	if err := store.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize container: %w", err)
	}
	c.Store = store

	cache, err := storage.NewFileStore(cfg.Container.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame cache: %w", err)
	}
	c.Cache = cache
	c.Bundle = openBundle(cfg.Container.BundleDir, log)

	c.Instances = instance.NewRepository(store, log,
		instance.WithClock(c.Clock), instance.WithMetrics(c.Metrics))
	c.Catalog = catalog.New(store, c.Bundle, cfg.Timeline.FrameInterval, log)
	c.Frames = frames.NewResolver(frames.Config{
		Cache:          cache,
		Shared:         store,
		Bundle:         c.Bundle,
		FallbackDesign: cfg.Container.FallbackDesign,
		Metrics:        c.Metrics,
		Clock:          c.Clock,
		Logger:         log,
	})
	c.Signals = signal.NewSignaler(store, c.Clock, c.Metrics, log)
	c.Featured = featured.NewRegistry(store, c.Signals, log)
	c.Slots = slots.NewResolver(store, c.Instances, c.Catalog, c.Clock, log)

	c.Scheduler, err = timeline.NewScheduler(timeline.Config{
		Mode:      timeline.Mode(cfg.Timeline.Mode),
		Params:    Params(cfg.Timeline),
		Instances: c.Instances,
		Designs:   c.Catalog,
		Clock:     c.Clock,
		Logger:    log,
		Metrics:   c.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	c.Provisioner = provision.New(provision.Config{
		Store:           store,
		Bundle:          c.Bundle,
		Catalog:         c.Catalog,
		Cache:           c.Frames,
		DefaultInterval: cfg.Timeline.FrameInterval,
		Clock:           c.Clock,
		Metrics:         c.Metrics,
		Logger:          log,
	})

	c.Provider = widget.NewProvider(widget.Config{
		Featured:    c.Featured,
		Slots:       c.Slots,
		Scheduler:   c.Scheduler,
		Frames:      c.Frames,
		Signaler:    c.Signals,
		IdleRecheck: cfg.Timeline.IdleRecheck,
		Clock:       c.Clock,
		Logger:      log,
	})

	log.Debug("Container ready",
		zap.String("dir", store.Root()),
		zap.String("mode", string(c.Scheduler.Mode())),
		zap.Bool("bundle", c.Bundle != nil))
	return c, nil
}

// Params converts timeline configuration into scheduler parameters
func Params(tc config.TimelineConfig) timeline.Params {
	return timeline.Params{
		FrameInterval: tc.FrameInterval,
		TotalFrames:   tc.TotalFrames,
		ResetPad:      tc.ResetPad,
		StepDelay:     tc.StepDelay,
		StartLead:     tc.StartLead,
		IdleRecheck:   tc.IdleRecheck,
	}
}

// openBundle returns the bundle directory as a file system, or nil when the
// app ships without one
func openBundle(dir string, log *zap.Logger) fs.FS {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		log.Debug("No design bundle", zap.String("dir", dir))
		return nil
	}
	return os.DirFS(dir)
}

// Watcher returns a reload signal watcher on this container
func (c *Container) Watcher(debounce time.Duration) *signal.Watcher {
	return signal.NewWatcher(filepath.Join(c.Store.Root(), filepath.FromSlash(paths.Signals)), debounce, c.Logger.Logger)
}

// Host returns a widget host driving kinds (every kind when empty)
func (c *Container) Host(render host.Renderer, family string, kinds []string) *host.Host {
	return host.New(host.Config{
		Source:  c.Provider,
		Watcher: c.Watcher(0),
		Render:  render,
		Kinds:   kinds,
		Family:  family,
		Clock:   c.Clock,
		Logger:  c.Logger.Logger,
	})
}

// Maintenance returns the background jobs configured for this process
func (c *Container) Maintenance() (*host.Maintenance, error) {
	return host.NewMaintenance(host.MaintenanceConfig{
		Sweeper:        c.Instances,
		Retention:      c.Config.Retention.Instances,
		CleanupCron:    c.Config.Retention.CleanupCron,
		Metrics:        c.Metrics,
		Textfile:       c.Config.Metrics.Textfile,
		ExportInterval: c.Config.Metrics.ExportInterval,
		Logger:         c.Logger.Logger,
	})
}

// Close flushes buffered logs
func (c *Container) Close() error {
	_ = c.Logger.Sync()
	return nil
}
