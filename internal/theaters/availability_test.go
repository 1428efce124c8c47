package theaters

import (
	"testing"
	"time"

	"theaterbook/internal/timewindow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

func at(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, ist)
}

func theaterWithSlots(defs ...[2]string) *Theater {
	t := &Theater{ID: uuid.New(), Name: "Velvet Room"}
	for i, d := range defs {
		t.Slots = append(t.Slots, Slot{ID: uuid.New(), TheaterID: t.ID, Position: i, StartTime: d[0], EndTime: d[1]})
	}
	t.IndexSlots()
	return t
}

func TestComputeAvailabilityKeepsOrderAndSkipsBooked(t *testing.T) {
	w := timewindow.NewWithLocation(ist, time.Hour)
	th := theaterWithSlots(
		[2]string{"9:00 AM", "12:00 PM"},
		[2]string{"1:00 PM", "4:00 PM"},
		[2]string{"6:00 PM", "9:00 PM"},
	)
	day := at(2025, 3, 12, 0, 0)
	// Booked late in the day: still the same civil day.
	th.Slots[1].Dates = []SlotDate{{SlotID: th.Slots[1].ID, Date: at(2025, 3, 12, 23, 59), Status: DateBooked}}

	got, err := ComputeAvailability(th, day, at(2025, 3, 10, 10, 0), w)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, th.Slots[0].ID, got[0].SlotID)
	assert.Equal(t, th.Slots[2].ID, got[1].SlotID)
	assert.Equal(t, "2025-03-12", got[0].Date)
	assert.True(t, got[0].IsAvailable)
	assert.Equal(t, DateAvailable, got[0].Status)
}

func TestComputeAvailabilityIgnoresOtherDays(t *testing.T) {
	w := timewindow.NewWithLocation(ist, time.Hour)
	th := theaterWithSlots([2]string{"6:00 PM", "9:00 PM"})
	th.Slots[0].Dates = []SlotDate{{Date: at(2025, 3, 11, 0, 0), Status: DateBooked}}

	got, err := ComputeAvailability(th, at(2025, 3, 12, 0, 0), at(2025, 3, 10, 10, 0), w)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestComputeAvailabilityAppliesWindowToday(t *testing.T) {
	w := timewindow.NewWithLocation(ist, time.Hour)
	th := theaterWithSlots(
		[2]string{"9:00 AM", "12:00 PM"},
		[2]string{"1:00 PM", "4:00 PM"},
		[2]string{"6:00 PM", "9:00 PM"},
	)
	got, err := ComputeAvailability(th, at(2025, 3, 10, 0, 0), at(2025, 3, 10, 15, 30), w)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "6:00 PM", got[0].StartTime)
}

func TestComputeAvailabilityEmptyTheater(t *testing.T) {
	w := timewindow.NewWithLocation(ist, time.Hour)
	got, err := ComputeAvailability(&Theater{}, at(2025, 3, 10, 0, 0), at(2025, 3, 10, 8, 0), w)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestComputeAvailabilityRejectsMalformedSlot(t *testing.T) {
	w := timewindow.NewWithLocation(ist, time.Hour)
	th := theaterWithSlots([2]string{"25:00", "9:00 PM"})
	_, err := ComputeAvailability(th, at(2025, 3, 12, 0, 0), at(2025, 3, 10, 8, 0), w)
	assert.ErrorIs(t, err, timewindow.ErrInvalidSlotDefinition)
}

func TestFindSlot(t *testing.T) {
	th := theaterWithSlots([2]string{"9:00 AM", "12:00 PM"}, [2]string{"1:00 PM", "4:00 PM"})
	s, ok := th.FindSlot(th.Slots[1].ID)
	require.True(t, ok)
	assert.Equal(t, "1:00 PM", s.StartTime)

	_, ok = th.FindSlot(uuid.New())
	assert.False(t, ok)

	// Appending without reindexing must still resolve.
	th.Slots = append(th.Slots, Slot{ID: uuid.New(), StartTime: "6:00 PM", EndTime: "9:00 PM"})
	_, ok = th.FindSlot(th.Slots[2].ID)
	assert.True(t, ok)
}
