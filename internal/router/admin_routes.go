package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-booking/internal/handler"    // admin handlers
	"github.com/iliyamo/court-booking/internal/middleware" // JWT + role middlewares
	"github.com/iliyamo/court-booking/internal/model"
)

// RegisterAdmin registers admin endpoints under /v1/admin. All routes
// require a valid JWT and the admin role; successful writes drop the
// public response cache.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string, roles middleware.RoleChecker, cache *middleware.ResponseCache) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(roles, model.RoleAdmin),
		cache.InvalidateOnWrite(),
	)

	// ---- Courts ----
	g.GET("/courts", h.ListCourts)
	g.POST("/courts", h.CreateCourt)
	g.GET("/courts/:id", h.GetCourt)
	g.PUT("/courts/:id", h.UpdateCourt)
	g.PATCH("/courts/:id", h.UpdateCourt) // partial update
	g.DELETE("/courts/:id", h.DeleteCourt)

	// ---- Schedules ----
	g.GET("/schedules", h.ListSchedules)
	g.POST("/schedules", h.CreateSchedule)
	g.GET("/schedules/:id", h.GetSchedule)
	g.PUT("/schedules/:id", h.UpdateSchedule)
	g.PATCH("/schedules/:id", h.UpdateSchedule)
	g.DELETE("/schedules/:id", h.DeleteSchedule)

	// ---- Holidays ----
	g.GET("/holidays", h.ListHolidays)
	g.POST("/holidays", h.CreateHoliday)
	g.GET("/holidays/:id", h.GetHoliday)
	g.PUT("/holidays/:id", h.UpdateHoliday)
	g.PATCH("/holidays/:id", h.UpdateHoliday)
	g.DELETE("/holidays/:id", h.DeleteHoliday)

	// ---- Bookings and users ----
	g.DELETE("/bookings/:id", h.DeleteBooking)
	g.GET("/users/:id", h.GetUser)
	g.POST("/users/:id/roles/:role", h.GrantRole)
	g.DELETE("/users/:id/roles/:role", h.RevokeRole)
}
