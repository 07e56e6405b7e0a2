package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/court-booking/internal/logging"
	"github.com/iliyamo/court-booking/internal/utils"
)

// LoginPath is where unauthenticated callers are pointed.
const LoginPath = "/v1/auth/login"

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject and email into the request context.
// Handlers read them back with UserID(c) and c.Get("email").
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c, "missing bearer token")
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return unauthorized(c, "invalid token")
			}

			c.Set("user_id", claims.Subject)
			c.Set("email", claims.Email)
			// tag the request logger with the caller
			req := c.Request()
			entry := logging.FromContext(req.Context()).WithField("user_id", claims.Subject)
			c.SetRequest(req.WithContext(logging.ToContext(req.Context(), entry)))
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg, "login": LoginPath})
}
