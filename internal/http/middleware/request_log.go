package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/platform/ctxutil"
	"github.com/yungbote/scool-backend/internal/platform/logger"
)

// quietRoutes are polled by probes and scrapers and only log at debug.
var quietRoutes = map[string]bool{
	"/healthcheck":     true,
	"/api/healthcheck": true,
	"/metrics":         true,
}

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		fields = append(fields, ctxutil.GetTraceData(c.Request.Context()).LogFields()...)
		if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil && rd.ProfileID != 0 {
			fields = append(fields, "profile_id", rd.ProfileID, "role", rd.Role)
		}
		if last := c.Errors.Last(); last != nil {
			fields = append(fields, "code", apierr.CodeOf(last.Err))
			if status >= 500 {
				fields = append(fields, "error", last.Err)
			}
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		case quietRoutes[route]:
			log.Debug("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
