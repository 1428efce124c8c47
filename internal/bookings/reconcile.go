package bookings

import (
	"context"
	"fmt"

	"theaterbook/internal/timewindow"
	"theaterbook/pkg/logger"

	"github.com/google/uuid"
)

// Inconsistency is a booking found without its booked slot date marker.
type Inconsistency struct {
	BookingID string    `json:"booking_id"`
	TheaterID uuid.UUID `json:"theater_id"`
	SlotID    uuid.UUID `json:"slot_id"`
	Date      string    `json:"date"`
	Repaired  bool      `json:"repaired"`
	Err       error     `json:"-"`
}

// Reconciler repairs bookings whose slot date row was never flipped to
// booked, for example rows written outside the allocator.
type Reconciler struct {
	repo   Repository
	cache  AvailabilityInvalidator
	window *timewindow.Window
	batch  int
	log    *logger.Logger
}

func NewReconciler(repo Repository, cache AvailabilityInvalidator, window *timewindow.Window) *Reconciler {
	return &Reconciler{repo: repo, cache: cache, window: window, batch: 200, log: logger.GetDefault()}
}

// Run scans one batch and upserts the missing markers.
func (r *Reconciler) Run(ctx context.Context) ([]Inconsistency, error) {
	list, err := r.repo.FindUnmarked(ctx, r.batch)
	if err != nil {
		return nil, fmt.Errorf("failed to scan bookings: %w", err)
	}

	out := make([]Inconsistency, 0, len(list))
	touched := map[uuid.UUID]bool{}
	for i := range list {
		b := &list[i]
		b.Date = r.window.CivilDay(b.Date)
		day := r.window.DayKey(b.Date)
		r.log.LogAllocationInconsistency(ctx, b.BookingID, b.TheaterID.String(), b.SlotID.String(), day)

		item := Inconsistency{BookingID: b.BookingID, TheaterID: b.TheaterID, SlotID: b.SlotID, Date: day}
		if err := r.repo.MarkSlotBooked(ctx, b); err != nil {
			item.Err = fmt.Errorf("%w: %v", ErrAllocationInconsistent, err)
			r.log.ErrorContext(ctx, "failed to repair slot date", "booking_id", b.BookingID, "error", err)
		} else {
			item.Repaired = true
			touched[b.TheaterID] = true
		}
		out = append(out, item)
	}

	if r.cache != nil {
		for id := range touched {
			r.cache.InvalidateAvailability(ctx, id)
		}
	}
	return out, nil
}
