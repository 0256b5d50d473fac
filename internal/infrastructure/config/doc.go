// Package config provides 12-factor configuration management for the widget core.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override loaded values.
//
// Configuration Sections:
//   - Container: shared container, render cache and bundle locations
//   - Timeline: scheduling mode and timing parameters
//   - Retention: stale instance sweep
//   - Server: HTTP bridge settings (port, host)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - Metrics: textfile export for processes without an HTTP endpoint
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	store, err := storage.NewFileStore(cfg.Container.Dir)
//
// Environment Variables:
//   - ANIWIDGETS_CONTAINER_DIR, ANIWIDGETS_CACHE_DIR, ANIWIDGETS_BUNDLE_DIR
//   - ANIWIDGETS_TIMELINE_MODE (precomputed | stepped), ANIWIDGETS_FRAME_INTERVAL
//   - ANIWIDGETS_INSTANCE_RETENTION, ANIWIDGETS_CLEANUP_CRON
//   - PORT, HOST, LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST
package config
