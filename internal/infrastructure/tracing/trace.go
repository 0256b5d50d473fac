package tracing

import (
	"context"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/id"
	"go.uber.org/zap"
)

// Header carries the trace ID in and out of the HTTP bridge
const Header = "X-Trace-ID"

// maxTraceIDLen bounds caller supplied IDs before they reach the logs
const maxTraceIDLen = 64

// Span is one traced request
type Span struct {
	TraceID  string
	Name     string
	Start    time.Time
	Duration time.Duration
	Status   int
	Err      error
	Fields   []zap.Field
}

// Tag attaches a log field to the span
func (s *Span) Tag(f zap.Field) {
	s.Fields = append(s.Fields, f)
}

// Tracer logs finished spans. Spans slower than Slow, or with an error, are
// logged at warn level; the rest at debug.
type Tracer struct {
	logger *zap.Logger
	ids    *id.Generator
	slow   time.Duration
}

// New creates a tracer. A zero slow threshold disables slow span warnings.
func New(logger *zap.Logger, slow time.Duration) *Tracer {
	return &Tracer{
		logger: logging.Component(logger, "trace"),
		ids:    id.Default(),
		slow:   slow,
	}
}

// Start opens a span, reusing traceID when the caller supplied a usable one
func (t *Tracer) Start(ctx context.Context, name, traceID string) (*Span, context.Context) {
	if traceID == "" || len(traceID) > maxTraceIDLen {
		traceID = t.ids.GenerateString()
	}
	span := &Span{TraceID: traceID, Name: name, Start: time.Now()}
	return span, context.WithValue(ctx, traceIDKey, traceID)
}

// Finish records the span duration and logs it
func (t *Tracer) Finish(span *Span) {
	span.Duration = time.Since(span.Start)

	fields := append([]zap.Field{
		zap.String("trace_id", span.TraceID),
		zap.String("operation", span.Name),
		zap.Int("status", span.Status),
		zap.Duration("duration", span.Duration),
	}, span.Fields...)

	switch {
	case span.Err != nil:
		t.logger.Warn("Request failed", append(fields, zap.Error(span.Err))...)
	case t.slow > 0 && span.Duration >= t.slow:
		t.logger.Warn("Slow request", fields...)
	default:
		t.logger.Debug("Request completed", fields...)
	}
}

type contextKey struct{}

var traceIDKey contextKey

// TraceID returns the trace ID carried by ctx, or ""
func TraceID(ctx context.Context) string {
	v, _ := ctx.Value(traceIDKey).(string)
	return v
}

// Logger returns base annotated with the trace ID of ctx, if any
func Logger(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		return zap.NewNop()
	}
	if tid := TraceID(ctx); tid != "" {
		return base.With(zap.String("trace_id", tid))
	}
	return base
}
