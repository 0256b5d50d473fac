package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/domain/timeline"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/config"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/clock"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/paths"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Container.Dir = filepath.Join(t.TempDir(), "group")
	cfg.Container.CacheDir = filepath.Join(t.TempDir(), "cache")
	cfg.Container.BundleDir = filepath.Join(t.TempDir(), "bundle")
	return cfg
}

func newTestContainer(t *testing.T, cfg *config.Config) *Container {
	t.Helper()
	c, err := New(cfg,
		WithLogger(&logging.Logger{Logger: zap.NewNop()}),
		WithClock(clock.NewManual(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestNewInitializesContainer(t *testing.T) {
	cfg := testConfig(t)
	c := newTestContainer(t, cfg)

	for _, dir := range paths.StandardDirectories() {
		assert.DirExists(t, filepath.Join(cfg.Container.Dir, filepath.FromSlash(dir)))
	}
	assert.Nil(t, c.Bundle)
	assert.Equal(t, timeline.ModePrecomputed, c.Scheduler.Mode())
}

func TestNewSteppedMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.Timeline.Mode = config.ModeStepped
	c := newTestContainer(t, cfg)
	assert.Equal(t, timeline.ModeStepped, c.Scheduler.Mode())
}

func TestEndToEndProvisionAndTimeline(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	frame := filepath.Join(cfg.Container.BundleDir, "TestDesigns", "test01", "test01_frame_01.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(frame), 0o755))
	require.NoError(t, os.WriteFile(frame, []byte("\x89PNG\r\n\x1a\nbundle"), 0o644))

	c := newTestContainer(t, cfg)
	require.NotNil(t, c.Bundle)

	design, err := c.Provisioner.Provision(ctx, "test01", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, design.FrameCount)
	assert.Equal(t, 1, c.Catalog.FrameCount(ctx, "test01"))

	require.True(t, c.Featured.AddDesign(ctx, "test01"))
	tl := c.Provider.Timeline(ctx, types.PlacementContext{Kind: types.KindSlotA})
	require.Len(t, tl.Entries, 1)

	data, ok := c.Provider.Frame(ctx, tl.Entries[0])
	require.True(t, ok)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\nbundle"), data)

	sig, ok := c.Signals.Latest(ctx, types.KindAll)
	require.True(t, ok)
	assert.NotEmpty(t, sig.Reason)
}

func TestMaintenance(t *testing.T) {
	c := newTestContainer(t, testConfig(t))
	m, err := c.Maintenance()
	require.NoError(t, err)
	assert.Equal(t, 1, m.Jobs())
}
