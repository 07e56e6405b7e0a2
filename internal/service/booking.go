package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/court-booking/internal/calendar"
	"github.com/iliyamo/court-booking/internal/logging"
	"github.com/iliyamo/court-booking/internal/model"
	"github.com/iliyamo/court-booking/internal/queue"
	"github.com/iliyamo/court-booking/internal/repository"
)

// CreateBooking is the raw input of a booking request. Dates and times are
// parsed here so that every problem is reported as a field error.
type CreateBooking struct {
	ScheduleID     string `json:"schedule_id"`
	DisplayCourtID string `json:"display_court_id"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	CaseNumber     string `json:"case_number"`
}

// BookingService admits, reads and deletes bookings.
type BookingService struct {
	courts    CourtReader
	schedules ScheduleReader
	bookings  BookingStore
	holidays  HolidayReader
	events    EventPublisher
	cache     Invalidator
	now       func() time.Time
}

// NewBookingService wires the stores. events and cache may be nil.
func NewBookingService(courts CourtReader, schedules ScheduleReader, bookings BookingStore,
	holidays HolidayReader, events EventPublisher, cache Invalidator) *BookingService {
	return &BookingService{
		courts:    courts,
		schedules: schedules,
		bookings:  bookings,
		holidays:  holidays,
		events:    events,
		cache:     cache,
		now:       time.Now,
	}
}

// Create validates in, checks it against the bookings already occupying
// the display court on that date and writes it. The check and the write
// are not atomic: two concurrent requests can both pass.
func (s *BookingService) Create(ctx context.Context, in CreateBooking) (*model.Booking, error) {
	v := &calendar.ValidationError{}
	p := calendar.Proposal{
		ScheduleID:     strings.TrimSpace(in.ScheduleID),
		DisplayCourtID: strings.TrimSpace(in.DisplayCourtID),
		CaseNumber:     strings.TrimSpace(in.CaseNumber),
	}
	var err error
	if strings.TrimSpace(in.Date) != "" {
		if p.Date, err = calendar.ParseDate(strings.TrimSpace(in.Date)); err != nil {
			v.Add("date", "must be YYYY-MM-DD")
		}
	}
	if p.Start, err = calendar.ParseClock(strings.TrimSpace(in.StartTime)); err != nil {
		v.Add("start_time", "must be HH:MM")
	}
	if p.End, err = calendar.ParseClock(strings.TrimSpace(in.EndTime)); err != nil {
		v.Add("end_time", "must be HH:MM")
	}

	holidays := calendar.Holidays{}
	if !p.Date.IsZero() {
		day := calendar.FormatDate(p.Date)
		rows, err := s.holidays.List(ctx, day, day)
		if err != nil {
			return nil, err
		}
		for _, h := range rows {
			holidays[h.Date] = h.Name
		}
	}
	var pv *calendar.ValidationError
	if err := p.Validate(holidays); errors.As(err, &pv) {
		for field, msg := range pv.Fields {
			v.Add(field, msg)
		}
	}

	var sched *model.CourtSchedule
	if p.ScheduleID != "" {
		sched, err = s.schedules.GetByID(ctx, p.ScheduleID)
		switch {
		case errors.Is(err, repository.ErrScheduleNotFound):
			v.Add("schedule_id", "schedule not found")
		case err != nil:
			return nil, err
		case !sched.Visible():
			v.Add("schedule_id", "schedule is not accepting bookings")
		}
	}
	var display *model.Court
	if p.DisplayCourtID != "" {
		display, err = s.courts.GetByID(ctx, p.DisplayCourtID)
		switch {
		case errors.Is(err, repository.ErrCourtNotFound):
			v.Add("display_court_id", "court not found")
		case err != nil:
			return nil, err
		}
	}
	if v.HasErrors() {
		return nil, v
	}

	date := calendar.FormatDate(p.Date)
	rows, err := s.bookings.ListForCourt(ctx, date, display.ID)
	if err != nil {
		return nil, err
	}
	if hits := calendar.Conflicts(display.ID, p.Date, p.Start, p.End, model.CalendarBookings(rows)); len(hits) > 0 {
		ce := &ConflictError{CourtID: display.ID, Date: date}
		for _, h := range hits {
			ce.BookingIDs = append(ce.BookingIDs, h.ID)
		}
		return nil, ce
	}

	b := &model.Booking{
		ScheduleID:        sched.ID,
		DisplayCourtID:    &display.ID,
		Date:              date,
		StartTime:         p.Start,
		EndTime:           p.End,
		CaseNumber:        p.CaseNumber,
		ScheduleCourtID:   sched.CourtID,
		ScheduleCourtName: sched.CourtName,
		DisplayCourtName:  &display.Name,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).WithFields(logrus.Fields{
		"booking_id": b.ID,
		"court_id":   display.ID,
		"date":       date,
		"start":      p.Start.String(),
		"end":        p.End.String(),
	}).Info("booking created")
	s.afterWrite(ctx, queue.RouteBookingCreated, *b)
	return b, nil
}

// Get returns repository.ErrBookingNotFound for unknown ids.
func (s *BookingService) Get(ctx context.Context, id string) (*model.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// Delete removes a booking unconditionally.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}
	logging.FromContext(ctx).WithField("booking_id", id).Info("booking deleted")
	s.afterWrite(ctx, queue.RouteBookingDeleted, *b)
	return nil
}

func (s *BookingService) afterWrite(ctx context.Context, route string, b model.Booking) {
	log := logging.FromContext(ctx)
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.WithError(err).Warn("response cache invalidation failed")
		}
	}
	if s.events != nil {
		if err := s.events.PublishJSON(ctx, route, queue.NewBookingEvent(b, s.now())); err != nil {
			log.WithError(err).WithField("route", route).Warn("publish booking event failed")
		}
	}
}
