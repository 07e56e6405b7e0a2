package calendar

import "time"

// ClosedWeekdays are the weekdays on which no court can be booked.
var ClosedWeekdays = [...]time.Weekday{time.Friday, time.Saturday}

// Holidays maps a "YYYY-MM-DD" date to the holiday's name.
type Holidays map[string]string

// Closure describes why a day is closed. The zero value means open.
type Closure string

const (
	Open          Closure = ""
	ClosedWeekend Closure = "weekend"
	ClosedHoliday Closure = "holiday"
)

// WeekStart returns the Sunday on or before ref.
func WeekStart(ref time.Time) time.Time {
	d := Day(ref)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// WeekDays returns the seven dates of ref's week, Sunday first.
func WeekDays(ref time.Time) []time.Time {
	start := WeekStart(ref)
	out := make([]time.Time, 7)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

// Slots returns every slot boundary from OpeningTime to ClosingTime inclusive.
func Slots() []Clock {
	out := make([]Clock, 0, int(ClosingTime-OpeningTime)/SlotLength+1)
	for c := OpeningTime; c <= ClosingTime; c += SlotLength {
		out = append(out, c)
	}
	return out
}

// SlotIndex returns the row of c in Slots.
func SlotIndex(c Clock) (int, bool) {
	if c < OpeningTime || c > ClosingTime || (c-OpeningTime)%SlotLength != 0 {
		return -1, false
	}
	return int(c-OpeningTime) / SlotLength, true
}

// IsSlot reports whether c is one of the grid's slot boundaries.
func IsSlot(c Clock) bool {
	_, ok := SlotIndex(c)
	return ok
}

// EndOptions lists the valid end times for a booking starting at start.
func EndOptions(start Clock) []Clock {
	if !IsSlot(start) {
		return nil
	}
	var out []Clock
	for c := start + SlotLength; c <= ClosingTime; c += SlotLength {
		out = append(out, c)
	}
	return out
}

// ClosureOf classifies date and returns the holiday name when relevant.
// Weekends win over holidays.
func ClosureOf(date time.Time, holidays Holidays) (Closure, string) {
	wd := date.Weekday()
	for _, closed := range ClosedWeekdays {
		if wd == closed {
			return ClosedWeekend, ""
		}
	}
	if name, ok := holidays[FormatDate(date)]; ok {
		return ClosedHoliday, name
	}
	return Open, ""
}

// IsClosed reports whether no booking may be made on date.
func IsClosed(date time.Time, holidays Holidays) bool {
	c, _ := ClosureOf(date, holidays)
	return c != Open
}

// GridDay is one column of the week grid.
type GridDay struct {
	Date        time.Time
	Closure     Closure
	HolidayName string
}

// Closed reports whether the column is non-interactive.
func (d GridDay) Closed() bool { return d.Closure != Open }

// Placement anchors a booking on the grid.
type Placement struct {
	Booking   Booking
	DayIndex  int
	SlotIndex int
	Span      int
}

// Grid is one schedule's week.
type Grid struct {
	WeekStart  time.Time
	Days       []GridDay
	Slots      []Clock
	Placements []Placement
	// Misaligned holds bookings in the week whose start is not a slot
	// boundary; they are not rendered.
	Misaligned []Booking
	bookings   []Booking
}

// NewGrid builds the week containing ref for the given bookings.
func NewGrid(ref time.Time, holidays Holidays, bookings []Booking) *Grid {
	dates := WeekDays(ref)
	days := make([]GridDay, len(dates))
	for i, d := range dates {
		c, name := ClosureOf(d, holidays)
		days[i] = GridDay{Date: d, Closure: c, HolidayName: name}
	}
	placements, misaligned := Place(dates, bookings)
	return &Grid{
		WeekStart:  dates[0],
		Days:       days,
		Slots:      Slots(),
		Placements: placements,
		Misaligned: misaligned,
		bookings:   bookings,
	}
}

// Place anchors each booking that falls on one of days at the slot matching
// its start. Bookings outside days are ignored; bookings inside days whose
// start or end is off the grid are returned as misaligned.
func Place(days []time.Time, bookings []Booking) ([]Placement, []Booking) {
	var (
		placed     []Placement
		misaligned []Booking
	)
	for _, b := range bookings {
		dayIdx := -1
		for i, d := range days {
			if sameDay(d, b.Date) {
				dayIdx = i
				break
			}
		}
		if dayIdx < 0 {
			continue
		}
		slot, ok := SlotIndex(b.Start)
		if !ok || !IsSlot(b.End) || b.End <= b.Start {
			misaligned = append(misaligned, b)
			continue
		}
		placed = append(placed, Placement{Booking: b, DayIndex: dayIdx, SlotIndex: slot, Span: b.Span()})
	}
	return placed, misaligned
}

// ActionKind is what a click on a grid cell leads to.
type ActionKind string

const (
	ActionNone   ActionKind = "none"
	ActionCreate ActionKind = "create"
	ActionDetail ActionKind = "detail"
)

// Action is the outcome of clicking a cell.
type Action struct {
	Kind       ActionKind
	Date       time.Time
	Start      Clock
	EndOptions []Clock
	Booking    *Booking
}

// Click resolves a click on the cell at (date, at). Closed days, dates
// outside the week and times that cannot start a booking are no-ops.
func (g *Grid) Click(date time.Time, at Clock) Action {
	none := Action{Kind: ActionNone, Date: Day(date), Start: at}
	var day *GridDay
	for i := range g.Days {
		if sameDay(g.Days[i].Date, date) {
			day = &g.Days[i]
			break
		}
	}
	if day == nil || day.Closed() || !IsSlot(at) {
		return none
	}
	for i := range g.bookings {
		if g.bookings[i].Covers(date, at) {
			b := g.bookings[i]
			return Action{Kind: ActionDetail, Date: day.Date, Start: b.Start, Booking: &b}
		}
	}
	if at >= ClosingTime {
		return none
	}
	return Action{Kind: ActionCreate, Date: day.Date, Start: at, EndOptions: EndOptions(at)}
}
