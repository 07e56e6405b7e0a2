package calendar

import (
	"sort"
	"strings"
	"time"
)

// Proposal is a booking that has not been written yet.
type Proposal struct {
	ScheduleID     string
	DisplayCourtID string
	Date           time.Time
	Start          Clock
	End            Clock
	CaseNumber     string
}

// ValidationError captures field level problems with a proposal.
type ValidationError struct {
	Fields map[string]string
}

func (v *ValidationError) Error() string {
	if v == nil || len(v.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a problem with field. The first message per field wins.
func (v *ValidationError) Add(field, msg string) {
	if v.Fields == nil {
		v.Fields = make(map[string]string)
	}
	if _, ok := v.Fields[field]; !ok {
		v.Fields[field] = msg
	}
}

// HasErrors reports whether anything was recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.Fields) > 0
}

// Err returns v as an error, or nil when nothing was recorded.
func (v *ValidationError) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}

// Validate checks the proposal against the slot grid and the closed days.
// It does not look at other bookings; see Conflicts.
func (p Proposal) Validate(holidays Holidays) error {
	v := &ValidationError{}
	if strings.TrimSpace(p.CaseNumber) == "" {
		v.Add("case_number", "required")
	}
	if strings.TrimSpace(p.DisplayCourtID) == "" {
		v.Add("display_court_id", "required")
	}
	if strings.TrimSpace(p.ScheduleID) == "" {
		v.Add("schedule_id", "required")
	}
	if p.Date.IsZero() {
		v.Add("date", "required")
	} else if c, name := ClosureOf(p.Date, holidays); c != Open {
		msg := "court is closed on weekends"
		if c == ClosedHoliday {
			msg = "court is closed for " + name
		}
		v.Add("date", msg)
	}
	if !IsSlot(p.Start) || p.Start >= ClosingTime {
		v.Add("start_time", "must be a slot between "+OpeningTime.String()+" and "+(ClosingTime-SlotLength).String())
	}
	switch {
	case !IsSlot(p.End):
		v.Add("end_time", "must be a slot boundary no later than "+ClosingTime.String())
	case p.End <= p.Start:
		v.Add("end_time", "must be after start_time")
	}
	return v.Err()
}
