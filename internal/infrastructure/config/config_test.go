package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Timeline config
	assert.Equal(t, ModePrecomputed, cfg.Timeline.Mode)
	assert.Equal(t, 500*time.Millisecond, cfg.Timeline.FrameInterval)
	assert.Equal(t, 24, cfg.Timeline.TotalFrames)
	assert.Equal(t, time.Second, cfg.Timeline.ResetPad)
	assert.Equal(t, 100*time.Millisecond, cfg.Timeline.StepDelay)
	assert.Equal(t, 5*time.Minute, cfg.Timeline.IdleRecheck)

	// Retention config
	assert.Equal(t, 30*24*time.Hour, cfg.Retention.Instances)

	// Container config
	assert.NotEmpty(t, cfg.Container.Dir)
	assert.NotEmpty(t, cfg.Container.CacheDir)
	assert.Equal(t, "test01", cfg.Container.FallbackDesign)

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Server.SlowRequest)

	require.NoError(t, cfg.Validate())
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"ANIWIDGETS_CONTAINER_DIR":      "/tmp/group",
		"ANIWIDGETS_CACHE_DIR":          "/tmp/cache",
		"ANIWIDGETS_TIMELINE_MODE":      "stepped",
		"ANIWIDGETS_FRAME_INTERVAL":     "250ms",
		"ANIWIDGETS_STEP_DELAY":         "200ms",
		"ANIWIDGETS_INSTANCE_RETENTION": "168h",
		"PORT":                          "9000",
		"LOG_LEVEL":                     "debug",
		"RATE_LIMIT_ENABLED":            "false",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/group", cfg.Container.Dir)
	assert.Equal(t, "/tmp/cache", cfg.Container.CacheDir)
	assert.Equal(t, ModeStepped, cfg.Timeline.Mode)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeline.FrameInterval)
	assert.Equal(t, 200*time.Millisecond, cfg.Timeline.StepDelay)
	assert.Equal(t, 7*24*time.Hour, cfg.Retention.Instances)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.RateLimit.Enabled)

	// Defaults still apply
	assert.Equal(t, 24, cfg.Timeline.TotalFrames)
	assert.Equal(t, time.Second, cfg.Timeline.ResetPad)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"stepped", func(c *Config) { c.Timeline.Mode = ModeStepped }, false},
		{"unknown mode", func(c *Config) { c.Timeline.Mode = "burst" }, true},
		{"zero interval", func(c *Config) { c.Timeline.FrameInterval = 0 }, true},
		{"no frames", func(c *Config) { c.Timeline.TotalFrames = 0 }, true},
		{"zero step delay", func(c *Config) { c.Timeline.StepDelay = 0 }, true},
		{"negative pad", func(c *Config) { c.Timeline.ResetPad = -time.Second }, true},
		{"zero retention", func(c *Config) { c.Retention.Instances = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	t.Setenv("ANIWIDGETS_TIMELINE_MODE", "burst")

	_, err := Load()
	assert.Error(t, err)

	cfg := LoadOrDefault()
	assert.Equal(t, ModePrecomputed, cfg.Timeline.Mode)
}
