package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestLogger tags every request with an X-Request-ID (reusing a valid
// incoming one) and logs its completion with status and latency.
func RequestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if _, err := uuid.Parse(requestID); err != nil {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			err := next(c)
			if err != nil {
				// Let echo render the error so the logged status is final.
				c.Error(err)
			}

			attrs := []any{
				slog.String("request_id", requestID),
				slog.String("method", req.Method),
				slog.String("path", sanitizePath(req.URL.Path)),
				slog.Int("status", c.Response().Status),
				slog.Int64("latency_ms", time.Since(start).Milliseconds()),
			}
			if p, ok := PrincipalFrom(c); ok {
				attrs = append(attrs, slog.Uint64("customer_id", p.ID))
			}
			if c.Response().Status >= 500 {
				log.Error("request completed", attrs...)
			} else {
				log.Info("request completed", attrs...)
			}
			return nil
		}
	}
}

// sanitizePath drops control characters so a crafted path cannot forge log
// lines.
func sanitizePath(p string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, p)
}
