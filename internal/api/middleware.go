// middleware.go - Request logging through zap
package api

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/urban-jungle/backend/internal/logging"
)

// RequestLogger logs one line per request. Health checks are skipped, as
// is everything when enabled is false.
func RequestLogger(logger *zap.Logger, enabled bool) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !enabled {
				return true
			}
			path := c.Request().URL.Path
			return path == "/api/health" || !strings.HasPrefix(path, "/api/")
		},
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l := logger
			if v.RequestID != "" {
				l = logging.WithRequestID(logger, v.RequestID)
			}
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				l.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			l.Info("request", fields...)
			return nil
		},
	})
}
