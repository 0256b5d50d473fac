/*
Package monitoring provides Prometheus metrics for the widget core.

# Overview

Each process owns one Metrics value backed by its own registry. The HTTP
bridge exposes it on /metrics; widget host processes, which are never scraped,
periodically write it to a textfile for the node exporter.

# Metrics

  - Timeline requests by mode, state and refresh policy
  - Animation starts by result
  - Frame lookups by resolver tier and outcome
  - Instance sweep results and reload signals
  - HTTP request latency and service call timings

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "instance", "save")
	err := repo.Save(ctx, inst)
	timer.StopErr(err)
*/
package monitoring
