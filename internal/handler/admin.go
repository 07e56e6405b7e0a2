package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-booking/internal/calendar"
	"github.com/iliyamo/court-booking/internal/logging"
	"github.com/iliyamo/court-booking/internal/model"
	"github.com/iliyamo/court-booking/internal/repository"
	"github.com/iliyamo/court-booking/internal/service"
)

// AdminHandler serves /v1/admin. Every route sits behind JWTAuth and
// RequireRole(admin).
type AdminHandler struct {
	Courts    *repository.CourtRepo
	Schedules *repository.ScheduleRepo
	Holidays  *repository.HolidayRepo
	Profiles  *repository.ProfileRepo
	Bookings  *service.BookingService
}

func NewAdminHandler(courts *repository.CourtRepo, schedules *repository.ScheduleRepo, holidays *repository.HolidayRepo,
	profiles *repository.ProfileRepo, bookings *service.BookingService) *AdminHandler {
	return &AdminHandler{Courts: courts, Schedules: schedules, Holidays: holidays, Profiles: profiles, Bookings: bookings}
}

// grantableRoles are the roles an admin may hand out.
var grantableRoles = map[string]bool{model.RoleAdmin: true}

// ---------- courts ----------

type courtReq struct {
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
	// WithSchedule creates the court's schedule in the same call.
	WithSchedule bool `json:"with_schedule"`
}

// CreateCourt handles POST /v1/admin/courts.
func (h *AdminHandler) CreateCourt(c echo.Context) error {
	var body courtReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	court := &model.Court{IsActive: true}
	if v := applyCourt(court, body, true); v.HasErrors() {
		return respondError(c, v)
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	if !body.WithSchedule {
		if err := h.Courts.Create(ctx, court); err != nil {
			return respondError(c, err)
		}
		logging.FromContext(ctx).WithField("court_id", court.ID).Info("court created")
		return c.JSON(http.StatusCreated, court)
	}
	sched := &model.CourtSchedule{IsActive: true}
	if err := h.Courts.CreateWithSchedule(ctx, court, sched); err != nil {
		return respondError(c, err)
	}
	logging.FromContext(ctx).WithField("court_id", court.ID).Info("court created with schedule")
	return c.JSON(http.StatusCreated, echo.Map{"court": court, "schedule": sched})
}

// applyCourt copies the set fields of body onto court. When full is true
// name and location must be present in body.
func applyCourt(court *model.Court, body courtReq, full bool) *calendar.ValidationError {
	v := &calendar.ValidationError{}
	if body.Name != nil {
		court.Name = strings.TrimSpace(*body.Name)
	}
	if body.Location != nil {
		court.Location = strings.TrimSpace(*body.Location)
	}
	if body.Description != nil {
		court.Description = strings.TrimSpace(*body.Description)
	}
	if body.IsActive != nil {
		court.IsActive = *body.IsActive
	}
	if (full && body.Name == nil) || (body.Name != nil && court.Name == "") {
		v.Add("name", "required")
	}
	if (full && body.Location == nil) || (body.Location != nil && court.Location == "") {
		v.Add("location", "required")
	}
	return v
}

// ListCourts handles GET /v1/admin/courts, inactive courts included.
func (h *AdminHandler) ListCourts(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	courts, err := h.Courts.List(ctx, false)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": courts})
}

// GetCourt handles GET /v1/admin/courts/:id.
func (h *AdminHandler) GetCourt(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	court, err := h.Courts.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, court)
}

// UpdateCourt handles PUT/PATCH /v1/admin/courts/:id. PUT requires name
// and location; PATCH changes only the fields present.
func (h *AdminHandler) UpdateCourt(c echo.Context) error {
	var body courtReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	court, err := h.Courts.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	if v := applyCourt(court, body, c.Request().Method == http.MethodPut); v.HasErrors() {
		return respondError(c, v)
	}
	if err := h.Courts.Update(ctx, court); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, court)
}

// DeleteCourt handles DELETE /v1/admin/courts/:id. The court's schedule
// and its bookings go with it.
func (h *AdminHandler) DeleteCourt(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	id := c.Param("id")
	if err := h.Courts.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	logging.FromContext(ctx).WithField("court_id", id).Info("court deleted")
	return c.NoContent(http.StatusNoContent)
}

// ---------- schedules ----------

type scheduleReq struct {
	CourtID  string `json:"court_id"`
	IsActive *bool  `json:"is_active"`
}

// ListSchedules handles GET /v1/admin/schedules.
func (h *AdminHandler) ListSchedules(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	items, err := h.Schedules.List(ctx, false)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetSchedule handles GET /v1/admin/schedules/:id.
func (h *AdminHandler) GetSchedule(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	s, err := h.Schedules.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// CreateSchedule handles POST /v1/admin/schedules. A court has at most
// one schedule; a second one is a 409.
func (h *AdminHandler) CreateSchedule(c echo.Context) error {
	var body scheduleReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	body.CourtID = strings.TrimSpace(body.CourtID)
	if body.CourtID == "" {
		return fieldError(c, "court_id", "required")
	}
	s := &model.CourtSchedule{CourtID: body.CourtID, IsActive: true}
	if body.IsActive != nil {
		s.IsActive = *body.IsActive
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Schedules.Create(ctx, s); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

// UpdateSchedule handles PUT/PATCH /v1/admin/schedules/:id. Only is_active
// is editable.
func (h *AdminHandler) UpdateSchedule(c echo.Context) error {
	var body scheduleReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.IsActive == nil {
		return fieldError(c, "is_active", "required")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	id := c.Param("id")
	if err := h.Schedules.SetActive(ctx, id, *body.IsActive); err != nil {
		return respondError(c, err)
	}
	s, err := h.Schedules.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// DeleteSchedule handles DELETE /v1/admin/schedules/:id and removes the
// schedule's bookings.
func (h *AdminHandler) DeleteSchedule(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Schedules.Delete(ctx, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ---------- holidays ----------

type holidayReq struct {
	Date *string `json:"date"`
	Name *string `json:"name"`
}

func applyHoliday(hol *model.Holiday, body holidayReq, full bool) *calendar.ValidationError {
	v := &calendar.ValidationError{}
	if body.Date != nil {
		raw := strings.TrimSpace(*body.Date)
		if d, err := calendar.ParseDate(raw); err != nil {
			v.Add("date", "must be YYYY-MM-DD")
		} else {
			hol.Date = calendar.FormatDate(d)
		}
	} else if full {
		v.Add("date", "required")
	}
	if body.Name != nil {
		hol.Name = strings.TrimSpace(*body.Name)
	}
	if (full && body.Name == nil) || (body.Name != nil && hol.Name == "") {
		v.Add("name", "required")
	}
	return v
}

// ListHolidays handles GET /v1/admin/holidays?from=&to=.
func (h *AdminHandler) ListHolidays(c echo.Context) error {
	return listHolidays(c, h.Holidays)
}

// GetHoliday handles GET /v1/admin/holidays/:id.
func (h *AdminHandler) GetHoliday(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	hol, err := h.Holidays.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, hol)
}

// CreateHoliday handles POST /v1/admin/holidays. One holiday per date.
func (h *AdminHandler) CreateHoliday(c echo.Context) error {
	var body holidayReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	hol := &model.Holiday{}
	if v := applyHoliday(hol, body, true); v.HasErrors() {
		return respondError(c, v)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Holidays.Create(ctx, hol); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, hol)
}

// UpdateHoliday handles PUT/PATCH /v1/admin/holidays/:id.
func (h *AdminHandler) UpdateHoliday(c echo.Context) error {
	var body holidayReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	hol, err := h.Holidays.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	if v := applyHoliday(hol, body, c.Request().Method == http.MethodPut); v.HasErrors() {
		return respondError(c, v)
	}
	if err := h.Holidays.Update(ctx, hol); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, hol)
}

// DeleteHoliday handles DELETE /v1/admin/holidays/:id.
func (h *AdminHandler) DeleteHoliday(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Holidays.Delete(ctx, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ---------- bookings and roles ----------

// DeleteBooking handles DELETE /v1/admin/bookings/:id.
func (h *AdminHandler) DeleteBooking(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Bookings.Delete(ctx, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetUser handles GET /v1/admin/users/:id and returns the profile with its roles.
func (h *AdminHandler) GetUser(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	p, err := h.Profiles.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	roles, err := h.Profiles.Roles(ctx, p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": p, "roles": roles})
}

// GrantRole handles POST /v1/admin/users/:id/roles/:role.
func (h *AdminHandler) GrantRole(c echo.Context) error {
	role := strings.ToLower(c.Param("role"))
	if !grantableRoles[role] {
		return fieldError(c, "role", "unknown role")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	uid := c.Param("id")
	if err := h.Profiles.GrantRole(ctx, uid, role); err != nil {
		return respondError(c, err)
	}
	logging.FromContext(ctx).WithField("target_user", uid).WithField("role", role).Info("role granted")
	return h.roles(c, uid)
}

// RevokeRole handles DELETE /v1/admin/users/:id/roles/:role.
func (h *AdminHandler) RevokeRole(c echo.Context) error {
	role := strings.ToLower(c.Param("role"))
	if !grantableRoles[role] {
		return fieldError(c, "role", "unknown role")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	uid := c.Param("id")
	if _, err := h.Profiles.GetByID(ctx, uid); err != nil {
		return respondError(c, err)
	}
	if err := h.Profiles.RevokeRole(ctx, uid, role); err != nil {
		return respondError(c, err)
	}
	logging.FromContext(ctx).WithField("target_user", uid).WithField("role", role).Info("role revoked")
	return h.roles(c, uid)
}

func (h *AdminHandler) roles(c echo.Context, uid string) error {
	roles, err := h.Profiles.Roles(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": uid, "roles": roles})
}
