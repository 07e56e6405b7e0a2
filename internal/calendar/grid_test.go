package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestSlots(t *testing.T) {
	slots := Slots()
	require.Len(t, slots, 29)
	assert.Equal(t, MustClock("09:00"), slots[0])
	assert.Equal(t, MustClock("16:00"), slots[len(slots)-1])
	for i := 1; i < len(slots); i++ {
		assert.Equal(t, Clock(SlotLength), slots[i]-slots[i-1])
	}
	for _, s := range slots {
		assert.LessOrEqual(t, s, ClosingTime)
	}
}

func TestSlotIndex(t *testing.T) {
	idx, ok := SlotIndex(MustClock("10:30"))
	assert.True(t, ok)
	assert.Equal(t, 6, idx)

	_, ok = SlotIndex(MustClock("10:20"))
	assert.False(t, ok)
	_, ok = SlotIndex(MustClock("16:15"))
	assert.False(t, ok)
	_, ok = SlotIndex(MustClock("08:45"))
	assert.False(t, ok)
}

func TestWeekDays(t *testing.T) {
	// 2024-05-08 is a Wednesday.
	days := WeekDays(date(t, "2024-05-08"))
	require.Len(t, days, 7)
	assert.Equal(t, "2024-05-05", FormatDate(days[0]))
	assert.Equal(t, time.Sunday, days[0].Weekday())
	assert.Equal(t, "2024-05-11", FormatDate(days[6]))

	assert.Equal(t, "2024-05-05", FormatDate(WeekStart(date(t, "2024-05-05"))))
	assert.Equal(t, "2024-05-05", FormatDate(WeekStart(date(t, "2024-05-11"))))
}

func TestIsClosed(t *testing.T) {
	holidays := Holidays{"2024-05-07": "Memorial day"}

	cases := map[string]bool{
		"2024-05-05": false, // Sunday
		"2024-05-06": false, // Monday
		"2024-05-07": true,  // Tuesday, holiday
		"2024-05-09": false, // Thursday
		"2024-05-10": true,  // Friday
		"2024-05-11": true,  // Saturday
	}
	for d, want := range cases {
		assert.Equal(t, want, IsClosed(date(t, d), holidays), d)
	}

	c, name := ClosureOf(date(t, "2024-05-07"), holidays)
	assert.Equal(t, ClosedHoliday, c)
	assert.Equal(t, "Memorial day", name)

	// Friday stays closed with an empty holiday table.
	assert.True(t, IsClosed(date(t, "2024-05-10"), nil))
}

func TestEndOptions(t *testing.T) {
	opts := EndOptions(MustClock("15:15"))
	assert.Equal(t, []Clock{MustClock("15:30"), MustClock("15:45"), MustClock("16:00")}, opts)
	assert.Empty(t, EndOptions(ClosingTime))
	assert.Nil(t, EndOptions(MustClock("10:10")))
}

func TestPlace(t *testing.T) {
	days := WeekDays(date(t, "2024-05-06"))
	bookings := []Booking{
		{ID: "a", Date: date(t, "2024-05-06"), Start: MustClock("10:00"), End: MustClock("10:30")},
		{ID: "b", Date: date(t, "2024-05-08"), Start: MustClock("09:00"), End: MustClock("16:00")},
		{ID: "c", Date: date(t, "2024-05-06"), Start: MustClock("10:05"), End: MustClock("10:30")},
		{ID: "d", Date: date(t, "2024-05-20"), Start: MustClock("10:00"), End: MustClock("10:30")},
	}

	placed, misaligned := Place(days, bookings)
	require.Len(t, placed, 2)
	assert.Equal(t, "a", placed[0].Booking.ID)
	assert.Equal(t, 1, placed[0].DayIndex)
	assert.Equal(t, 4, placed[0].SlotIndex)
	assert.Equal(t, 2, placed[0].Span)

	assert.Equal(t, "b", placed[1].Booking.ID)
	assert.Equal(t, 3, placed[1].DayIndex)
	assert.Equal(t, 0, placed[1].SlotIndex)
	assert.Equal(t, 28, placed[1].Span)

	require.Len(t, misaligned, 1)
	assert.Equal(t, "c", misaligned[0].ID)
}

func TestGridClick(t *testing.T) {
	existing := Booking{ID: "x", Date: date(t, "2024-05-06"), Start: MustClock("10:00"), End: MustClock("10:30")}
	g := NewGrid(date(t, "2024-05-06"), Holidays{"2024-05-07": "Memorial day"}, []Booking{existing})

	t.Run("empty slot on open day creates", func(t *testing.T) {
		a := g.Click(date(t, "2024-05-06"), MustClock("11:00"))
		assert.Equal(t, ActionCreate, a.Kind)
		assert.Equal(t, MustClock("11:00"), a.Start)
		assert.Equal(t, "2024-05-06", FormatDate(a.Date))
		require.NotEmpty(t, a.EndOptions)
		assert.Equal(t, MustClock("11:15"), a.EndOptions[0])
	})

	t.Run("covered slot opens detail", func(t *testing.T) {
		a := g.Click(date(t, "2024-05-06"), MustClock("10:15"))
		assert.Equal(t, ActionDetail, a.Kind)
		require.NotNil(t, a.Booking)
		assert.Equal(t, "x", a.Booking.ID)
	})

	t.Run("end of booking is free", func(t *testing.T) {
		a := g.Click(date(t, "2024-05-06"), MustClock("10:30"))
		assert.Equal(t, ActionCreate, a.Kind)
	})

	t.Run("friday is a no-op", func(t *testing.T) {
		for _, s := range Slots() {
			assert.Equal(t, ActionNone, g.Click(date(t, "2024-05-10"), s).Kind)
		}
	})

	t.Run("holiday is a no-op", func(t *testing.T) {
		assert.Equal(t, ActionNone, g.Click(date(t, "2024-05-07"), MustClock("10:00")).Kind)
	})

	t.Run("outside week or grid is a no-op", func(t *testing.T) {
		assert.Equal(t, ActionNone, g.Click(date(t, "2024-05-13"), MustClock("10:00")).Kind)
		assert.Equal(t, ActionNone, g.Click(date(t, "2024-05-06"), MustClock("10:10")).Kind)
		assert.Equal(t, ActionNone, g.Click(date(t, "2024-05-06"), ClosingTime).Kind)
	})

	assert.Equal(t, ClosedWeekend, g.Days[5].Closure)
	assert.Equal(t, ClosedWeekend, g.Days[6].Closure)
	assert.Equal(t, "Memorial day", g.Days[2].HolidayName)
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:15")
	require.NoError(t, err)
	assert.Equal(t, Clock(555), c)
	assert.Equal(t, "09:15", c.String())

	c, err = ParseClock("13:45:00")
	require.NoError(t, err)
	assert.Equal(t, "13:45", c.String())

	for _, bad := range []string{"", "9", "24:00", "10:60", "10:00:30", "ab:cd",
		"+9:00", "-1:00", "09:+5", "9 :00", "09: 15", "009:00", "10:00:+0"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	for _, ok := range []string{"2024-05-06", " 2024-05-06 ", "2024-05-06T10:00:00Z", "2024-05-06 10:00:00"} {
		d, err := ParseDate(ok)
		require.NoError(t, err, ok)
		assert.True(t, want.Equal(d), ok)
	}

	for _, bad := range []string{"", "2024-5-6", "2024-05-06junk", "2024-05-061", "2024-13-01", "06-05-2024"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestClockScan(t *testing.T) {
	var c Clock
	require.NoError(t, c.Scan([]byte("10:30")))
	assert.Equal(t, MustClock("10:30"), c)
	require.NoError(t, c.Scan(time.Date(0, 1, 1, 14, 15, 0, 0, time.UTC)))
	assert.Equal(t, MustClock("14:15"), c)
	assert.Error(t, c.Scan(nil))

	v, err := MustClock("09:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "09:00", v)
}
