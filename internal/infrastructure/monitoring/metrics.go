package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Timeline metrics
	TimelineRequests *prometheus.CounterVec
	TimelineEntries  prometheus.Histogram
	AnimationStarts  *prometheus.CounterVec
	StateWrites      *prometheus.CounterVec

	// Asset metrics
	FrameLookups *prometheus.CounterVec
	Provisioned  *prometheus.CounterVec

	// Instance metrics
	InstancesTotal  prometheus.Gauge
	InstancesPurged prometheus.Counter

	// Signal metrics
	SignalsSent *prometheus.CounterVec

	// Service metrics
	ServiceCalls    *prometheus.CounterVec
	ServiceDuration *prometheus.HistogramVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests   int64   `json:"totalRequests"`
	TotalErrors     int64   `json:"totalErrors"`
	TimelineServed  int64   `json:"timelineServed"`
	AnimationStarts int64   `json:"animationStarts"`
	CacheHits       int64   `json:"cacheHits"`
	CacheMisses     int64   `json:"cacheMisses"`
	UptimeSeconds   float64 `json:"uptimeSeconds"`
}

// NewMetrics creates a metrics collector with its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return newMetrics(reg)
}

func newMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aniwidgets_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aniwidgets_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		// Timeline metrics
		TimelineRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aniwidgets_timeline_requests_total",
				Help: "Total number of timeline requests",
			},
			[]string{"mode", "state", "policy"},
		),
		TimelineEntries: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "aniwidgets_timeline_entries",
				Help:    "Number of entries per generated timeline",
				Buckets: []float64{1, 2, 5, 10, 25, 50},
			},
		),
		AnimationStarts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aniwidgets_animation_starts_total",
				Help: "Total number of animation start requests",
			},
			[]string{"result"},
		),
		StateWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aniwidgets_state_writes_total",
				Help: "Total number of instance state writes",
			},
			[]string{"reason", "status"},
		),

		// Asset metrics
		FrameLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aniwidgets_frame_lookups_total",
				Help: "Frame resolutions by tier and outcome",
			},
			[]string{"tier", "outcome"},
		),
		Provisioned: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aniwidgets_designs_provisioned_total",
				Help: "Total number of design provisioning runs",
			},
			[]string{"status"},
		),

		// Instance metrics
		InstancesTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "aniwidgets_instances",
				Help: "Number of persisted widget instances at last sweep",
			},
		),
		InstancesPurged: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "aniwidgets_instances_purged_total",
				Help: "Total number of stale instances removed",
			},
		),

		// Signal metrics
		SignalsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aniwidgets_reload_signals_total",
				Help: "Total number of reload signals raised",
			},
			[]string{"kind", "status"},
		),

		// Service metrics
		ServiceCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aniwidgets_service_calls_total",
				Help: "Total number of service calls",
			},
			[]string{"service", "method", "status"},
		),
		ServiceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aniwidgets_service_duration_seconds",
				Help:    "Service call duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"service", "method"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "aniwidgets_uptime_seconds",
			Help: "Process uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Handler returns the Prometheus exposition handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current metrics in text format to path,
// for processes that are not scraped directly.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordTimeline records a generated timeline
func (m *Metrics) RecordTimeline(mode, state, policy string, entries int) {
	if m == nil {
		return
	}
	m.TimelineRequests.WithLabelValues(mode, state, policy).Inc()
	m.TimelineEntries.Observe(float64(entries))

	m.mu.Lock()
	m.snapshot.TimelineServed++
	m.mu.Unlock()
}

// RecordStart records the outcome of an animation start request
func (m *Metrics) RecordStart(result string) {
	if m == nil {
		return
	}
	m.AnimationStarts.WithLabelValues(result).Inc()
	if result == "started" {
		m.mu.Lock()
		m.snapshot.AnimationStarts++
		m.mu.Unlock()
	}
}

// RecordStateWrite records an instance state write
func (m *Metrics) RecordStateWrite(reason string, err error) {
	if m == nil {
		return
	}
	m.StateWrites.WithLabelValues(reason, statusOf(err)).Inc()
}

// RecordFrameLookup records a frame resolution attempt against one tier
func (m *Metrics) RecordFrameLookup(tier, outcome string) {
	if m == nil {
		return
	}
	m.FrameLookups.WithLabelValues(tier, outcome).Inc()

	if tier == "cache" {
		m.mu.Lock()
		if outcome == "hit" {
			m.snapshot.CacheHits++
		} else {
			m.snapshot.CacheMisses++
		}
		m.mu.Unlock()
	}
}

// RecordProvision records a provisioning run
func (m *Metrics) RecordProvision(err error) {
	if m == nil {
		return
	}
	m.Provisioned.WithLabelValues(statusOf(err)).Inc()
}

// RecordSweep records the result of a cleanup sweep
func (m *Metrics) RecordSweep(remaining, purged int) {
	if m == nil {
		return
	}
	m.InstancesTotal.Set(float64(remaining))
	m.InstancesPurged.Add(float64(purged))
}

// RecordSignal records a reload signal
func (m *Metrics) RecordSignal(kind string, err error) {
	if m == nil {
		return
	}
	m.SignalsSent.WithLabelValues(kind, statusOf(err)).Inc()
}

// RecordServiceCall records a service call
func (m *Metrics) RecordServiceCall(service, method, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ServiceCalls.WithLabelValues(service, method, status).Inc()
	m.ServiceDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}

// Snapshot returns the current values for the JSON API
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
