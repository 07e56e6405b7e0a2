package calendar

import "time"

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd Clock) bool {
	return aStart < bEnd && aEnd > bStart
}

// Conflicts returns the bookings in existing that share date and resolved
// court key with the candidate interval and intersect it.
func Conflicts(courtKey string, date time.Time, start, end Clock, existing []Booking) []Booking {
	var out []Booking
	for _, b := range existing {
		if !sameDay(b.Date, date) || b.CourtKey() != courtKey {
			continue
		}
		if Overlaps(start, end, b.Start, b.End) {
			out = append(out, b)
		}
	}
	return out
}

// WouldOverlap reports whether a booking for courtKey on date from start to
// end conflicts with any of existing.
func WouldOverlap(courtKey string, date time.Time, start, end Clock, existing []Booking) bool {
	return len(Conflicts(courtKey, date, start, end, existing)) > 0
}
