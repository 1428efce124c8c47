package timewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

func at(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, ist)
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in     string
		hour   int
		minute int
	}{
		{"9:00 AM", 9, 0},
		{"09:30 am", 9, 30},
		{"12:00 AM", 0, 0},
		{"12:15 PM", 12, 15},
		{"11:59PM", 23, 59},
	}
	for _, tc := range cases {
		c, err := ParseClock(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.hour, c.Hour, tc.in)
		assert.Equal(t, tc.minute, c.Minute, tc.in)
	}
}

func TestParseClockRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "9:00", "13:00 PM", "0:30 AM", "9:60 AM", "9.30 AM", "nine AM", "9:5 AM"} {
		_, err := ParseClock(in)
		assert.ErrorIs(t, err, ErrInvalidSlotDefinition, in)
	}
}

func TestClockString(t *testing.T) {
	c, err := ParseClock("12:05 am")
	require.NoError(t, err)
	assert.Equal(t, "12:05 AM", c.String())
}

func TestBoundsCrossesMidnight(t *testing.T) {
	w := NewWithLocation(ist, time.Hour)
	start, end, err := w.Bounds("11:00 PM", "1:00 AM", at(2025, 3, 10, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, at(2025, 3, 10, 23, 0), start)
	assert.Equal(t, at(2025, 3, 11, 1, 0), end)
}

func TestIsSlotBookable(t *testing.T) {
	w := NewWithLocation(ist, time.Hour)
	day := at(2025, 3, 10, 0, 0)

	cases := []struct {
		name  string
		start string
		end   string
		date  time.Time
		now   time.Time
		want  bool
	}{
		{"future date is open", "9:00 AM", "12:00 PM", day.AddDate(0, 0, 1), at(2025, 3, 10, 23, 59), true},
		{"past date is closed", "9:00 AM", "12:00 PM", day.AddDate(0, 0, -1), at(2025, 3, 10, 0, 1), false},
		{"today before start", "6:00 PM", "9:00 PM", day, at(2025, 3, 10, 17, 0), true},
		{"started with more than an hour left", "6:00 PM", "9:00 PM", day, at(2025, 3, 10, 19, 30), true},
		{"started with exactly an hour left", "6:00 PM", "9:00 PM", day, at(2025, 3, 10, 20, 0), true},
		{"started with under an hour left", "6:00 PM", "9:00 PM", day, at(2025, 3, 10, 20, 1), false},
		{"already ended", "6:00 PM", "9:00 PM", day, at(2025, 3, 10, 21, 0), false},
		{"midnight slot late evening", "10:00 PM", "1:00 AM", day, at(2025, 3, 10, 23, 30), true},
		{"midnight slot evaluated the next day", "10:00 PM", "1:00 AM", day, at(2025, 3, 11, 0, 30), false},
		{"midnight slot started with under an hour left", "11:00 PM", "12:30 AM", day, at(2025, 3, 10, 23, 45), false},
		{"midnight slot started with over an hour left", "11:00 PM", "1:30 AM", day, at(2025, 3, 10, 23, 45), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := w.IsSlotBookable(tc.start, tc.end, tc.date, tc.now)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsSlotBookableUsesZoneNotHostClock(t *testing.T) {
	w := NewWithLocation(ist, time.Hour)
	// 20:00 UTC on Mar 9 is already 01:30 on Mar 10 in IST.
	now := time.Date(2025, 3, 9, 20, 0, 0, 0, time.UTC)
	ok, err := w.IsSlotBookable("9:00 AM", "12:00 PM", at(2025, 3, 10, 0, 0), now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = w.IsSlotBookable("9:00 AM", "12:00 PM", at(2025, 3, 9, 0, 0), now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsSlotBookableInvalidDefinition(t *testing.T) {
	w := NewWithLocation(ist, time.Hour)
	_, err := w.IsSlotBookable("25:00", "9:00 PM", at(2025, 3, 10, 0, 0), at(2025, 3, 10, 8, 0))
	assert.ErrorIs(t, err, ErrInvalidSlotDefinition)
}

func TestValidateSlot(t *testing.T) {
	assert.NoError(t, ValidateSlot("10:30 PM", "1:30 AM"))
	assert.NoError(t, ValidateSlot("10:00 AM", "1:00 PM"))
	assert.ErrorIs(t, ValidateSlot("9:00 PM", "9:00 PM"), ErrInvalidSlotDefinition)
	assert.ErrorIs(t, ValidateSlot("12:00 AM", "12:00 AM"), ErrInvalidSlotDefinition)
	assert.ErrorIs(t, ValidateSlot("9:00 PM", "noon"), ErrInvalidSlotDefinition)
}

func TestParseDate(t *testing.T) {
	w := NewWithLocation(ist, time.Hour)

	d, err := w.ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, at(2025, 3, 10, 0, 0), d)

	d, err = w.ParseDate("2025-03-09T20:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, at(2025, 3, 10, 0, 0), d)

	_, err = w.ParseDate("10/03/2025")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = w.ParseDate("")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestCivilDayBucketsSameDay(t *testing.T) {
	w := NewWithLocation(ist, time.Hour)
	a := at(2025, 3, 10, 0, 5)
	b := at(2025, 3, 10, 23, 55)
	assert.True(t, w.SameDay(a, b))
	assert.False(t, w.SameDay(a, b.Add(10*time.Minute)))
	assert.Equal(t, "2025-03-10", w.DayKey(b))
}

func TestNewFallsBackOnUnknownZone(t *testing.T) {
	w := New("Not/AZone", 0)
	_, offset := time.Date(2025, 1, 1, 0, 0, 0, 0, w.Location()).Zone()
	assert.Equal(t, 19800, offset)
	assert.Equal(t, DefaultMinRemaining, w.MinRemaining())
}
