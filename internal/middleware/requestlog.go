package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/court-booking/internal/logging"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// RequestLogger attaches a logrus entry tagged with a request id to the
// request context and logs one line per request when it completes.
func RequestLogger(logger *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rid := req.Header.Get(HeaderRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Response().Header().Set(HeaderRequestID, rid)

			entry := logger.WithFields(logrus.Fields{
				"request_id": rid,
				"method":     req.Method,
				"path":       req.URL.Path,
			})
			c.SetRequest(req.WithContext(logging.ToContext(req.Context(), entry)))

			start := time.Now()
			err := next(c)
			if err != nil {
				// let echo write the error response so the status is final
				c.Error(err)
			}

			fields := logrus.Fields{
				"status":     c.Response().Status,
				"latency_ms": time.Since(start).Milliseconds(),
			}
			if uid := UserID(c); uid != "" {
				fields["user_id"] = uid
			}
			line := logging.FromContext(c.Request().Context()).WithFields(fields)
			if err != nil {
				line = line.WithError(err)
			}
			switch status := c.Response().Status; {
			case status >= 500:
				line.Error("request failed")
			case status >= 400:
				line.Warn("request rejected")
			default:
				line.Info("request handled")
			}
			return nil
		}
	}
}
