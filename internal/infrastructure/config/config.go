package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Scheduling modes
const (
	ModePrecomputed = "precomputed"
	ModeStepped     = "stepped"
)

// Config holds all application configuration.
type Config struct {
	Container ContainerConfig
	Timeline  TimelineConfig
	Retention RetentionConfig
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
}

// ContainerConfig locates the shared container, the render cache and the bundle.
type ContainerConfig struct {
	Dir            string `envconfig:"ANIWIDGETS_CONTAINER_DIR"`
	CacheDir       string `envconfig:"ANIWIDGETS_CACHE_DIR"`
	BundleDir      string `envconfig:"ANIWIDGETS_BUNDLE_DIR" default:"bundle"`
	FallbackDesign string `envconfig:"ANIWIDGETS_FALLBACK_DESIGN" default:"test01"`
}

// TimelineConfig holds the scheduling parameters.
type TimelineConfig struct {
	Mode          string        `envconfig:"ANIWIDGETS_TIMELINE_MODE" default:"precomputed"`
	FrameInterval time.Duration `envconfig:"ANIWIDGETS_FRAME_INTERVAL" default:"500ms"`
	TotalFrames   int           `envconfig:"ANIWIDGETS_TOTAL_FRAMES" default:"24"`
	ResetPad      time.Duration `envconfig:"ANIWIDGETS_RESET_PAD" default:"1s"`
	StepDelay     time.Duration `envconfig:"ANIWIDGETS_STEP_DELAY" default:"100ms"`
	StartLead     time.Duration `envconfig:"ANIWIDGETS_START_LEAD" default:"50ms"`
	IdleRecheck   time.Duration `envconfig:"ANIWIDGETS_IDLE_RECHECK" default:"5m"`
}

// RetentionConfig controls the stale instance sweep.
type RetentionConfig struct {
	Instances   time.Duration `envconfig:"ANIWIDGETS_INSTANCE_RETENTION" default:"720h"`
	CleanupCron string        `envconfig:"ANIWIDGETS_CLEANUP_CRON" default:"0 3 * * *"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string        `envconfig:"PORT" default:"8000"`
	Host        string        `envconfig:"HOST" default:"127.0.0.1"`
	SlowRequest time.Duration `envconfig:"ANIWIDGETS_SLOW_REQUEST" default:"250ms"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// MetricsConfig controls the metrics textfile export of non-server processes.
type MetricsConfig struct {
	Textfile       string        `envconfig:"ANIWIDGETS_METRICS_TEXTFILE"`
	ExportInterval time.Duration `envconfig:"ANIWIDGETS_METRICS_INTERVAL" default:"30s"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.applyDirDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	cfg := &Config{
		Container: ContainerConfig{
			BundleDir:      "bundle",
			FallbackDesign: "test01",
		},
		Timeline: TimelineConfig{
			Mode:          ModePrecomputed,
			FrameInterval: 500 * time.Millisecond,
			TotalFrames:   24,
			ResetPad:      time.Second,
			StepDelay:     100 * time.Millisecond,
			StartLead:     50 * time.Millisecond,
			IdleRecheck:   5 * time.Minute,
		},
		Retention: RetentionConfig{
			Instances:   30 * 24 * time.Hour,
			CleanupCron: "0 3 * * *",
		},
		Server: ServerConfig{
			Port:        "8000",
			Host:        "127.0.0.1",
			SlowRequest: 250 * time.Millisecond,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Metrics: MetricsConfig{
			ExportInterval: 30 * time.Second,
		},
	}
	cfg.applyDirDefaults()
	return cfg
}

// Validate checks values that envconfig cannot.
func (c *Config) Validate() error {
	switch c.Timeline.Mode {
	case ModePrecomputed, ModeStepped:
	default:
		return fmt.Errorf("unknown timeline mode %q", c.Timeline.Mode)
	}
	if c.Timeline.FrameInterval <= 0 {
		return fmt.Errorf("frame interval must be positive")
	}
	if c.Timeline.TotalFrames < 1 {
		return fmt.Errorf("total frames must be at least 1")
	}
	if c.Timeline.StepDelay <= 0 {
		return fmt.Errorf("step delay must be positive")
	}
	if c.Timeline.ResetPad < 0 || c.Timeline.StartLead < 0 {
		return fmt.Errorf("reset pad and start lead cannot be negative")
	}
	if c.Retention.Instances <= 0 {
		return fmt.Errorf("instance retention must be positive")
	}
	return nil
}

// applyDirDefaults fills the container and cache directories from the user
// directories when they are not set explicitly.
func (c *Config) applyDirDefaults() {
	if c.Container.Dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = os.TempDir()
		}
		c.Container.Dir = filepath.Join(base, "aniwidgets", "group")
	}
	if c.Container.CacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		c.Container.CacheDir = filepath.Join(base, "aniwidgets")
	}
}
