package host

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/domain/instance"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/monitoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	retention time.Duration
	err       error
}

func (s *fakeSweeper) Purge(_ context.Context, retention time.Duration) (instance.SweepResult, error) {
	s.retention = retention
	if s.err != nil {
		return instance.SweepResult{}, s.err
	}
	return instance.SweepResult{Scanned: 3, Purged: []string{"inst_a"}, Kept: 2}, nil
}

func TestNewMaintenanceRegistersJobs(t *testing.T) {
	m, err := NewMaintenance(MaintenanceConfig{
		Sweeper:        &fakeSweeper{},
		CleanupCron:    "0 3 * * *",
		Metrics:        monitoring.NewMetrics(),
		Textfile:       t.TempDir() + "/aniwidgets.prom",
		ExportInterval: time.Minute,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Jobs())
}

func TestNewMaintenanceRejectsBadCron(t *testing.T) {
	_, err := NewMaintenance(MaintenanceConfig{Sweeper: &fakeSweeper{}, CleanupCron: "not a cron"})
	assert.Error(t, err)

	_, err = NewMaintenance(MaintenanceConfig{})
	assert.Error(t, err)
}

func TestSweep(t *testing.T) {
	sweeper := &fakeSweeper{}
	m, err := NewMaintenance(MaintenanceConfig{Sweeper: sweeper, Retention: time.Hour})
	require.NoError(t, err)

	res, err := m.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"inst_a"}, res.Purged)
	assert.Equal(t, time.Hour, sweeper.retention)

	sweeper.err = errors.New("disk gone")
	_, err = m.Sweep(context.Background())
	assert.Error(t, err)
}

func TestExportWritesTextfile(t *testing.T) {
	path := t.TempDir() + "/aniwidgets.prom"
	m, err := NewMaintenance(MaintenanceConfig{
		Sweeper:        &fakeSweeper{},
		Metrics:        monitoring.NewMetrics(),
		Textfile:       path,
		ExportInterval: time.Hour,
	})
	require.NoError(t, err)

	m.export()
	assert.FileExists(t, path)
}
