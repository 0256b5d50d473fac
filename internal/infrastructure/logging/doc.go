// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Widget processes are short lived and may be killed at any point, so every
// component logs through a named child of one process logger and never buffers.
//
// Example Usage:
//
//	logger, err := logging.New(logging.ProcessConfig(cfg.Logging.Level, cfg.Logging.Development))
//	repo := instance.NewRepository(store, logging.Component(logger.Logger, "instance"))
//	logger.Error("Failed to save instance", zap.String("instance_id", id), zap.Error(err))
package logging
