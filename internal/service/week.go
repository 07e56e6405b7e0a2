package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/court-booking/internal/calendar"
	"github.com/iliyamo/court-booking/internal/model"
	"github.com/iliyamo/court-booking/internal/repository"
)

// WeekService composes the public calendar of one schedule.
type WeekService struct {
	courts    CourtReader
	schedules ScheduleReader
	bookings  BookingStore
	holidays  HolidayReader
}

func NewWeekService(courts CourtReader, schedules ScheduleReader, bookings BookingStore, holidays HolidayReader) *WeekService {
	return &WeekService{courts: courts, schedules: schedules, bookings: bookings, holidays: holidays}
}

// DayView is one column of the week.
type DayView struct {
	Date        string           `json:"date"`
	Weekday     string           `json:"weekday"`
	Closed      bool             `json:"closed"`
	Closure     calendar.Closure `json:"closure,omitempty"`
	HolidayName string           `json:"holiday_name,omitempty"`
}

// PlacedBooking is a booking anchored on the grid.
type PlacedBooking struct {
	model.Booking
	DayIndex  int    `json:"day_index"`
	SlotIndex int    `json:"slot_index"`
	Span      int    `json:"span"`
	Color     string `json:"color"`
}

// WeekView is the response for one (schedule, week) key. ScheduleID and
// WeekStart echo the key so clients can drop responses for a key they
// have since navigated away from.
type WeekView struct {
	ScheduleID string              `json:"schedule_id"`
	WeekStart  string              `json:"week_start"`
	Schedule   model.CourtSchedule `json:"schedule"`
	Days       []DayView           `json:"days"`
	Slots      []calendar.Clock    `json:"slots"`
	Bookings   []PlacedBooking     `json:"bookings"`
	Misaligned []model.Booking     `json:"misaligned"`
	Courts     []model.Court       `json:"courts"`
	Colors     map[string]string   `json:"colors"`

	grid *calendar.Grid
	rows map[string]model.Booking
}

// Week loads everything the calendar of scheduleID needs for the week
// containing ref. The four reads run concurrently; any failure fails the
// whole view. Schedules hidden from the public report ErrScheduleNotFound.
func (s *WeekService) Week(ctx context.Context, scheduleID string, ref time.Time) (*WeekView, error) {
	days := calendar.WeekDays(ref)
	from, to := calendar.FormatDate(days[0]), calendar.FormatDate(days[len(days)-1])

	var (
		sched    *model.CourtSchedule
		rows     []model.Booking
		holidays []model.Holiday
		courts   []model.Court
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sched, err = s.schedules.GetByID(gctx, scheduleID)
		return err
	})
	g.Go(func() (err error) {
		rows, err = s.bookings.ListBySchedule(gctx, scheduleID, from, to)
		return err
	})
	g.Go(func() (err error) {
		holidays, err = s.holidays.List(gctx, from, to)
		return err
	})
	g.Go(func() (err error) {
		courts, err = s.courts.List(gctx, true)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if !sched.Visible() {
		return nil, repository.ErrScheduleNotFound
	}

	hs := calendar.Holidays{}
	for _, h := range holidays {
		hs[h.Date] = h.Name
	}
	grid := calendar.NewGrid(ref, hs, model.CalendarBookings(rows))

	byID := make(map[string]model.Booking, len(rows))
	courtIDs := make([]string, 0, len(courts)+len(rows))
	for _, c := range courts {
		courtIDs = append(courtIDs, c.ID)
	}
	for _, r := range rows {
		byID[r.ID] = r
		courtIDs = append(courtIDs, r.CourtKey())
	}
	colors := calendar.CourtColors(courtIDs)

	view := &WeekView{
		ScheduleID: scheduleID,
		WeekStart:  from,
		Schedule:   *sched,
		Slots:      grid.Slots,
		Bookings:   make([]PlacedBooking, 0, len(grid.Placements)),
		Misaligned: make([]model.Booking, 0, len(grid.Misaligned)),
		Courts:     courts,
		Colors:     colors,
		grid:       grid,
		rows:       byID,
	}
	for _, d := range grid.Days {
		view.Days = append(view.Days, DayView{
			Date:        calendar.FormatDate(d.Date),
			Weekday:     d.Date.Weekday().String(),
			Closed:      d.Closed(),
			Closure:     d.Closure,
			HolidayName: d.HolidayName,
		})
	}
	for _, p := range grid.Placements {
		b := byID[p.Booking.ID]
		view.Bookings = append(view.Bookings, PlacedBooking{
			Booking:   b,
			DayIndex:  p.DayIndex,
			SlotIndex: p.SlotIndex,
			Span:      p.Span,
			Color:     colors[b.CourtKey()],
		})
	}
	for _, m := range grid.Misaligned {
		view.Misaligned = append(view.Misaligned, byID[m.ID])
	}
	return view, nil
}

// SlotAction is the outcome of clicking one cell of a schedule's week.
type SlotAction struct {
	ScheduleID string              `json:"schedule_id"`
	Date       string              `json:"date"`
	Time       calendar.Clock      `json:"time"`
	Action     calendar.ActionKind `json:"action"`
	EndOptions []calendar.Clock    `json:"end_options,omitempty"`
	Booking    *model.Booking      `json:"booking,omitempty"`
}

// Click resolves the cell (date, at) on the calendar of scheduleID.
func (s *WeekService) Click(ctx context.Context, scheduleID string, date time.Time, at calendar.Clock) (*SlotAction, error) {
	view, err := s.Week(ctx, scheduleID, date)
	if err != nil {
		return nil, err
	}
	a := view.grid.Click(date, at)
	out := &SlotAction{
		ScheduleID: scheduleID,
		Date:       calendar.FormatDate(date),
		Time:       at,
		Action:     a.Kind,
		EndOptions: a.EndOptions,
	}
	if a.Booking != nil {
		if b, ok := view.rows[a.Booking.ID]; ok {
			out.Booking = &b
		}
	}
	return out, nil
}

// DayBookings lists the schedule's bookings on one date. Like Week it
// hides schedules that are not visible.
func (s *WeekService) DayBookings(ctx context.Context, scheduleID string, date time.Time) ([]model.Booking, error) {
	sched, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if !sched.Visible() {
		return nil, repository.ErrScheduleNotFound
	}
	day := calendar.FormatDate(date)
	return s.bookings.ListBySchedule(ctx, scheduleID, day, day)
}
