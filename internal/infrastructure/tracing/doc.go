// Package tracing gives each HTTP bridge request a trace ID and logs the
// finished request as a span. IDs arrive and leave in the X-Trace-ID header
// and travel in the request context, where Logger picks them up.
package tracing
