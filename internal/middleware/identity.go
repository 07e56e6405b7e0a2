package middleware

import "github.com/labstack/echo/v4"

// UserID returns the authenticated profile id set by JWTAuth, or "" for
// anonymous requests.
func UserID(c echo.Context) string {
	if v, ok := c.Get("user_id").(string); ok {
		return v
	}
	return ""
}
