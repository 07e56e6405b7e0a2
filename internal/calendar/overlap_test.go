package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourtKey(t *testing.T) {
	assert.Equal(t, "court-a", Booking{ScheduleCourtID: "court-a"}.CourtKey())
	assert.Equal(t, "court-b", Booking{ScheduleCourtID: "court-a", DisplayCourtID: "court-b"}.CourtKey())
}

func TestOverlaps(t *testing.T) {
	s, e := MustClock("10:00"), MustClock("10:30")
	assert.True(t, Overlaps(MustClock("10:15"), MustClock("10:45"), s, e))
	assert.True(t, Overlaps(MustClock("09:45"), MustClock("10:15"), s, e))
	assert.True(t, Overlaps(MustClock("09:00"), MustClock("11:00"), s, e))
	assert.True(t, Overlaps(s, e, s, e))
	assert.False(t, Overlaps(MustClock("10:30"), MustClock("11:00"), s, e))
	assert.False(t, Overlaps(MustClock("09:30"), MustClock("10:00"), s, e))
}

func TestWouldOverlap(t *testing.T) {
	monday := date(t, "2024-05-06")
	existing := []Booking{{
		ID:              "k1",
		ScheduleCourtID: "K",
		Date:            monday,
		Start:           MustClock("10:00"),
		End:             MustClock("10:30"),
	}}

	t.Run("adjacent booking is allowed", func(t *testing.T) {
		assert.False(t, WouldOverlap("K", monday, MustClock("10:30"), MustClock("11:00"), existing))
		assert.False(t, WouldOverlap("K", monday, MustClock("09:30"), MustClock("10:00"), existing))
	})

	t.Run("intersecting booking is rejected", func(t *testing.T) {
		assert.True(t, WouldOverlap("K", monday, MustClock("10:15"), MustClock("10:45"), existing))
		got := Conflicts("K", monday, MustClock("10:15"), MustClock("10:45"), existing)
		if assert.Len(t, got, 1) {
			assert.Equal(t, "k1", got[0].ID)
		}
	})

	t.Run("different court key is allowed", func(t *testing.T) {
		assert.False(t, WouldOverlap("L", monday, MustClock("10:00"), MustClock("10:30"), existing))
	})

	t.Run("different date is allowed", func(t *testing.T) {
		assert.False(t, WouldOverlap("K", date(t, "2024-05-07"), MustClock("10:00"), MustClock("10:30"), existing))
	})

	t.Run("display court override decides the key", func(t *testing.T) {
		moved := []Booking{{
			ScheduleCourtID: "K",
			DisplayCourtID:  "L",
			Date:            monday,
			Start:           MustClock("10:00"),
			End:             MustClock("10:30"),
		}}
		assert.False(t, WouldOverlap("K", monday, MustClock("10:00"), MustClock("10:30"), moved))
		assert.True(t, WouldOverlap("L", monday, MustClock("10:00"), MustClock("10:30"), moved))
	})
}

func TestCourtColors(t *testing.T) {
	a := CourtColors([]string{"c", "a", "b"})
	b := CourtColors([]string{"b", "c", "a", "a"})
	assert.Equal(t, a, b)
	assert.Equal(t, Palette[0], a["a"])
	assert.Equal(t, Palette[1], a["b"])
	assert.Equal(t, Palette[2], a["c"])

	many := make([]string, len(Palette)+1)
	for i := range many {
		many[i] = string(rune('a' + i))
	}
	colors := CourtColors(many)
	assert.Equal(t, Palette[0], colors[many[len(Palette)]])
}
