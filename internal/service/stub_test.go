package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/iliyamo/court-booking/internal/model"
	"github.com/iliyamo/court-booking/internal/repository"
)

// memStore is an in-memory stand-in for the repositories.
type memStore struct {
	mu        sync.Mutex
	courts    map[string]model.Court
	schedules map[string]model.CourtSchedule
	bookings  map[string]model.Booking
	holidays  []model.Holiday
	seq       int
	failList  error
}

func newMemStore() *memStore {
	return &memStore{
		courts:    map[string]model.Court{},
		schedules: map[string]model.CourtSchedule{},
		bookings:  map[string]model.Booking{},
	}
}

func (m *memStore) addCourt(id, name string, active bool) model.Court {
	c := model.Court{ID: id, Name: name, IsActive: active}
	m.courts[id] = c
	return c
}

func (m *memStore) addSchedule(id, courtID string, active bool) model.CourtSchedule {
	c := m.courts[courtID]
	s := model.CourtSchedule{ID: id, CourtID: courtID, IsActive: active, CourtName: c.Name, CourtIsActive: c.IsActive}
	m.schedules[id] = s
	return s
}

// courts

type memCourts struct{ *memStore }

func (m memCourts) GetByID(_ context.Context, id string) (*model.Court, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courts[id]
	if !ok {
		return nil, repository.ErrCourtNotFound
	}
	return &c, nil
}

func (m memCourts) List(_ context.Context, activeOnly bool) ([]model.Court, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Court{}
	for _, c := range m.courts {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// schedules

type memSchedules struct{ *memStore }

func (m memSchedules) GetByID(_ context.Context, id string) (*model.CourtSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[id]
	if !ok {
		return nil, repository.ErrScheduleNotFound
	}
	return &s, nil
}

// bookings

type memBookings struct{ *memStore }

func (m memBookings) Create(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	b.ID = fmt.Sprintf("bk-%d", m.seq)
	m.bookings[b.ID] = *b
	return nil
}

func (m memBookings) GetByID(_ context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	return &b, nil
}

func (m memBookings) ListBySchedule(_ context.Context, scheduleID, from, to string) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}
	out := []model.Booking{}
	for _, b := range m.bookings {
		if b.ScheduleID == scheduleID && b.Date >= from && b.Date <= to {
			out = append(out, b)
		}
	}
	sortBookings(out)
	return out, nil
}

func (m memBookings) ListForCourt(_ context.Context, date, courtID string) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Booking{}
	for _, b := range m.bookings {
		if b.Date == date && b.CourtKey() == courtID {
			out = append(out, b)
		}
	}
	sortBookings(out)
	return out, nil
}

func (m memBookings) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return repository.ErrBookingNotFound
	}
	delete(m.bookings, id)
	return nil
}

func sortBookings(out []model.Booking) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
}

// holidays

type memHolidays struct{ *memStore }

func (m memHolidays) List(_ context.Context, from, to string) ([]model.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Holiday{}
	for _, h := range m.holidays {
		if h.Date >= from && h.Date <= to {
			out = append(out, h)
		}
	}
	return out, nil
}

// recorders

type published struct {
	route string
	body  any
}

type recordingPublisher struct {
	msgs []published
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.msgs = append(p.msgs, published{route: key, body: v})
	return p.err
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.n++
	return nil
}

var errBoom = errors.New("boom")
