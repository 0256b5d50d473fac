package host

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/domain/instance"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/monitoring"
	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Sweeper purges stale instances
type Sweeper interface {
	Purge(ctx context.Context, retention time.Duration) (instance.SweepResult, error)
}

// MaintenanceConfig wires the background jobs
type MaintenanceConfig struct {
	Sweeper        Sweeper
	Retention      time.Duration
	CleanupCron    string
	Metrics        *monitoring.Metrics
	Textfile       string
	ExportInterval time.Duration
	Logger         *zap.Logger
}

// Maintenance runs the periodic jobs of a long-lived process: the stale
// instance sweep and the metrics textfile export.
type Maintenance struct {
	cfg       MaintenanceConfig
	scheduler *gocron.Scheduler
	logger    *zap.Logger
}

// NewMaintenance registers the jobs without starting them
func NewMaintenance(cfg MaintenanceConfig) (*Maintenance, error) {
	if cfg.Sweeper == nil {
		return nil, errors.New("sweeper is required")
	}
	m := &Maintenance{
		cfg:       cfg,
		scheduler: gocron.NewScheduler(time.UTC),
		logger:    logging.Component(cfg.Logger, "maintenance"),
	}
	m.scheduler.SingletonModeAll()

	if cfg.CleanupCron != "" {
		if _, err := m.scheduler.Cron(cfg.CleanupCron).Do(func() {
			if _, err := m.Sweep(context.Background()); err != nil {
				m.logger.Error("Cleanup sweep failed", zap.Error(err))
			}
		}); err != nil {
			return nil, fmt.Errorf("failed to schedule cleanup: %w", err)
		}
	}

	if cfg.Textfile != "" && cfg.Metrics != nil && cfg.ExportInterval > 0 {
		if _, err := m.scheduler.Every(cfg.ExportInterval).Do(m.export); err != nil {
			return nil, fmt.Errorf("failed to schedule metrics export: %w", err)
		}
	}
	return m, nil
}

// Jobs returns the number of registered jobs
func (m *Maintenance) Jobs() int {
	return len(m.scheduler.Jobs())
}

// Start runs the jobs in the background
func (m *Maintenance) Start() {
	m.scheduler.StartAsync()
	m.logger.Info("Maintenance started", zap.Int("jobs", m.Jobs()))
}

// Stop halts the jobs; a running job is allowed to finish
func (m *Maintenance) Stop() {
	m.scheduler.Stop()
}

// Sweep purges stale instances now
func (m *Maintenance) Sweep(ctx context.Context) (instance.SweepResult, error) {
	return m.cfg.Sweeper.Purge(ctx, m.cfg.Retention)
}

func (m *Maintenance) export() {
	if err := m.cfg.Metrics.WriteTextfile(m.cfg.Textfile); err != nil {
		m.logger.Warn("Failed to export metrics", zap.String("path", m.cfg.Textfile), zap.Error(err))
	}
}
