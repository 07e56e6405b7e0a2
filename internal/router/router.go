package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/court-booking/internal/handler"    // handlers that implement each endpoint
	"github.com/iliyamo/court-booking/internal/middleware" // JWT, role, rate limit and cache middleware
)

// RegisterRoutes registers routes that do not belong to any API group.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	// Used by load balancers and monitoring systems.
	e.GET("/healthz", h.Health)
}

// RegisterAuth registers the authentication routes. Token issuing
// endpoints live under /v1/auth and are rate limited; /v1/me requires a
// valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limiter)
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	// rotates the refresh token
	g.POST("/refresh", a.Refresh)
	// accepts a refresh_token body, a bearer header, or both
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic registers the unauthenticated calendar endpoints. GETs go
// through the response cache; booking creation is rate limited.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, limiter echo.MiddlewareFunc, cache *middleware.ResponseCache) {
	read := e.Group("/v1", cache.Read())
	read.GET("/courts", p.ListCourts)
	read.GET("/courts/:id", p.GetCourt)
	read.GET("/schedules", p.ListSchedules)
	read.GET("/schedules/:id", p.GetSchedule)
	read.GET("/schedules/:id/week", p.Week)
	read.GET("/schedules/:id/slot", p.Slot)
	read.GET("/schedules/:id/bookings", p.DayBookings)
	read.GET("/holidays", p.ListHolidays)
	read.GET("/slots", p.Slots)
	read.GET("/slots/end-times", p.EndTimes)
	read.GET("/bookings/:id", p.GetBooking)

	e.POST("/v1/bookings", p.CreateBooking, limiter)
}
