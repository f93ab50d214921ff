// Package middleware provides the HTTP middleware chain for the
// generation server: request identification, structured logging,
// panic recovery, body limits, and request timeouts.
package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDHeader is the header request IDs are read from and echoed
// back on.
const RequestIDHeader = "X-Request-ID"

// RequestID attaches a request ID to every request: the caller's
// X-Request-ID when present, otherwise a fresh UUID. The ID is stored
// on the context under "request_id" and set on the response header.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(RequestIDHeader)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Set("request_id", rid)
			c.Response().Header().Set(RequestIDHeader, rid)
			return next(c)
		}
	}
}
