package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-booking/internal/calendar"
	"github.com/iliyamo/court-booking/internal/repository"
	"github.com/iliyamo/court-booking/internal/service"
)

// PublicHandler serves the calendar and booking endpoints that need no
// authentication.
type PublicHandler struct {
	Courts    *repository.CourtRepo
	Schedules *repository.ScheduleRepo
	Holidays  *repository.HolidayRepo
	Weeks     *service.WeekService
	Bookings  *service.BookingService
}

func NewPublicHandler(courts *repository.CourtRepo, schedules *repository.ScheduleRepo, holidays *repository.HolidayRepo,
	week *service.WeekService, bookings *service.BookingService) *PublicHandler {
	return &PublicHandler{Courts: courts, Schedules: schedules, Holidays: holidays, Weeks: week, Bookings: bookings}
}

// ListCourts handles GET /v1/courts. Only active courts are listed.
func (h *PublicHandler) ListCourts(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	courts, err := h.Courts.List(ctx, true)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": courts})
}

// GetCourt handles GET /v1/courts/:id. Inactive courts are reported as missing.
func (h *PublicHandler) GetCourt(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	court, err := h.Courts.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	if !court.IsActive {
		return respondError(c, repository.ErrCourtNotFound)
	}
	return c.JSON(http.StatusOK, court)
}

// ListSchedules handles GET /v1/schedules.
func (h *PublicHandler) ListSchedules(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	items, err := h.Schedules.List(ctx, true)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetSchedule handles GET /v1/schedules/:id.
func (h *PublicHandler) GetSchedule(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	s, err := h.Schedules.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	if !s.Visible() {
		return respondError(c, repository.ErrScheduleNotFound)
	}
	return c.JSON(http.StatusOK, s)
}

// Week handles GET /v1/schedules/:id/week?date=YYYY-MM-DD. The week
// containing date is returned; without date the current week is used.
func (h *PublicHandler) Week(c echo.Context) error {
	ref, ok := dateParam(c, "date", today())
	if !ok {
		return fieldError(c, "date", "must be YYYY-MM-DD")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	view, err := h.Weeks.Week(ctx, c.Param("id"), ref)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Slot handles GET /v1/schedules/:id/slot?date=&time= and tells the client
// what clicking that cell does.
func (h *PublicHandler) Slot(c echo.Context) error {
	v := &calendar.ValidationError{}
	date, err := calendar.ParseDate(strings.TrimSpace(c.QueryParam("date")))
	if err != nil {
		v.Add("date", "must be YYYY-MM-DD")
	}
	at, err := calendar.ParseClock(strings.TrimSpace(c.QueryParam("time")))
	if err != nil {
		v.Add("time", "must be HH:MM")
	}
	if v.HasErrors() {
		return respondError(c, v)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	action, err := h.Weeks.Click(ctx, c.Param("id"), date, at)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, action)
}

// DayBookings handles GET /v1/schedules/:id/bookings?date=.
func (h *PublicHandler) DayBookings(c echo.Context) error {
	date, ok := dateParam(c, "date", today())
	if !ok {
		return fieldError(c, "date", "must be YYYY-MM-DD")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	rows, err := h.Weeks.DayBookings(ctx, c.Param("id"), date)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"date": calendar.FormatDate(date), "items": rows})
}

// ListHolidays handles GET /v1/holidays?from=&to=. Both bounds are optional.
func (h *PublicHandler) ListHolidays(c echo.Context) error {
	return listHolidays(c, h.Holidays)
}

func listHolidays(c echo.Context, repo *repository.HolidayRepo) error {
	v := &calendar.ValidationError{}
	bounds := map[string]string{}
	for _, name := range []string{"from", "to"} {
		raw := strings.TrimSpace(c.QueryParam(name))
		if raw == "" {
			continue
		}
		if _, err := calendar.ParseDate(raw); err != nil {
			v.Add(name, "must be YYYY-MM-DD")
			continue
		}
		bounds[name] = raw
	}
	if v.HasErrors() {
		return respondError(c, v)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	items, err := repo.List(ctx, bounds["from"], bounds["to"])
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Slots handles GET /v1/slots: the fixed time grid.
func (h *PublicHandler) Slots(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"slot_minutes": calendar.SlotLength,
		"opening":      calendar.OpeningTime,
		"closing":      calendar.ClosingTime,
		"slots":        calendar.Slots(),
	})
}

// EndTimes handles GET /v1/slots/end-times?start=HH:MM and lists the
// valid end times for a booking starting at start.
func (h *PublicHandler) EndTimes(c echo.Context) error {
	start, err := calendar.ParseClock(strings.TrimSpace(c.QueryParam("start")))
	if err != nil || !calendar.IsSlot(start) || start >= calendar.ClosingTime {
		return fieldError(c, "start", "must be a slot before "+calendar.ClosingTime.String())
	}
	return c.JSON(http.StatusOK, echo.Map{"start": start, "end_options": calendar.EndOptions(start)})
}

// CreateBooking handles POST /v1/bookings.
func (h *PublicHandler) CreateBooking(c echo.Context) error {
	var body service.CreateBooking
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	b, err := h.Bookings.Create(ctx, body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// GetBooking handles GET /v1/bookings/:id.
func (h *PublicHandler) GetBooking(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	b, err := h.Bookings.Get(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}
