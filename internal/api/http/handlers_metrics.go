package http

import (
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/monitoring"
)

// HandlerMetrics wraps handlers with metrics tracking
type HandlerMetrics struct {
	metrics *monitoring.Metrics
}

// NewHandlerMetrics creates a metrics wrapper
func NewHandlerMetrics(metrics *monitoring.Metrics) *HandlerMetrics {
	return &HandlerMetrics{metrics: metrics}
}

// track returns a stop function recording one call of service.operation
func (hm *HandlerMetrics) track(service, operation string) func(err error) {
	timer := monitoring.NewTimer(hm.metrics, service, operation)
	return timer.StopErr
}

// TrackProvider tracks widget provider operations
func (hm *HandlerMetrics) TrackProvider(operation string) func(err error) {
	return hm.track("widget_provider", operation)
}

// TrackRegistry tracks featured registry operations
func (hm *HandlerMetrics) TrackRegistry(operation string) func(err error) {
	return hm.track("featured_registry", operation)
}

// TrackDesigns tracks catalog and provisioning operations
func (hm *HandlerMetrics) TrackDesigns(operation string) func(err error) {
	return hm.track("designs", operation)
}

// TrackInstances tracks instance repository operations
func (hm *HandlerMetrics) TrackInstances(operation string) func(err error) {
	return hm.track("instances", operation)
}
