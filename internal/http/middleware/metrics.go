package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/scool-backend/internal/observability"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
)

// Metrics counts requests per route template. Unrouted paths share one
// label so scanners cannot blow up the series count. The SSE stream is
// long-lived and tracked by the client gauge instead of the inflight one.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		start := time.Now()
		streaming := route == "/api/sse/stream"
		if !streaming {
			m.APIInflight(1)
			defer m.APIInflight(-1)
		}

		c.Next()

		m.ObserveAPI(c.Request.Method, route, c.Writer.Status(), time.Since(start))
		if last := c.Errors.Last(); last != nil && c.Writer.Status() >= 400 {
			m.IncAPIError(apierr.CodeOf(last.Err))
		}
	}
}
