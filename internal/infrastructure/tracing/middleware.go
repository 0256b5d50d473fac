package tracing

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Middleware traces every request through the router. An incoming trace ID
// header is honoured and always echoed back on the response.
func Middleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.FullPath()
		if name == "" {
			name = "unmatched"
		}

		span, ctx := tracer.Start(c.Request.Context(), c.Request.Method+" "+name, c.GetHeader(Header))
		c.Request = c.Request.WithContext(ctx)
		c.Header(Header, span.TraceID)

		c.Next()

		span.Status = c.Writer.Status()
		span.Tag(zap.String("client_ip", c.ClientIP()))
		if len(c.Errors) > 0 {
			span.Err = c.Errors.Last()
		}
		tracer.Finish(span)
	}
}
