package theaters

import (
	"fmt"
	"time"

	"theaterbook/internal/timewindow"

	"github.com/google/uuid"
)

// SlotAvailability is one bookable slot of a theater on a given day.
type SlotAvailability struct {
	SlotID      uuid.UUID  `json:"slot_id"`
	Position    int        `json:"position"`
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
	Date        string     `json:"date"`
	Status      DateStatus `json:"status"`
	IsAvailable bool       `json:"is_available"`
}

// StatusOn returns the slot's status on the civil day of date.
func (s *Slot) StatusOn(date time.Time, w *timewindow.Window) DateStatus {
	for _, d := range s.Dates {
		if w.SameDay(d.Date, date) {
			return d.Status
		}
	}
	return DateAvailable
}

// ComputeAvailability lists the slots of t that can be booked on date as of
// now, in slot definition order. Booked slots are never listed. Unavailable
// markers are informational and do not hide a slot.
func ComputeAvailability(t *Theater, date, now time.Time, w *timewindow.Window) ([]SlotAvailability, error) {
	day := w.CivilDay(date)
	key := day.Format(timewindow.DayLayout)

	out := make([]SlotAvailability, 0, len(t.Slots))
	for i := range t.Slots {
		slot := &t.Slots[i]
		status := slot.StatusOn(day, w)
		if status == DateBooked {
			continue
		}

		ok, err := w.IsSlotBookable(slot.StartTime, slot.EndTime, day, now)
		if err != nil {
			return nil, fmt.Errorf("slot %s: %w", slot.ID, err)
		}
		if !ok {
			continue
		}

		out = append(out, SlotAvailability{
			SlotID:      slot.ID,
			Position:    slot.Position,
			StartTime:   slot.StartTime,
			EndTime:     slot.EndTime,
			Date:        key,
			Status:      status,
			IsAvailable: true,
		})
	}
	return out, nil
}
