package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-booking/internal/logging"
)

// RoleChecker answers whether a user currently holds a role.
// repository.ProfileRepo implements it.
type RoleChecker interface {
	HasRole(ctx context.Context, userID, role string) (bool, error)
}

// RequireRole returns a middleware that lets the request through only if
// the authenticated user holds role. The role is looked up on every
// request, so grants and revocations apply immediately. It must run
// after JWTAuth.
func RequireRole(checker RoleChecker, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := UserID(c)
			if uid == "" {
				return unauthorized(c, "authentication required")
			}
			ctx := c.Request().Context()
			ok, err := checker.HasRole(ctx, uid, role)
			if err != nil {
				logging.FromContext(ctx).WithError(err).Error("role lookup failed")
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
			}
			if !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
