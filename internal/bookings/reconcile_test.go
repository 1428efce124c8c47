package bookings

import (
	"context"
	"testing"
	"time"

	"theaterbook/internal/theaters"
	"theaterbook/internal/timewindow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcilerRepairsMissingMarker(t *testing.T) {
	ctx := context.Background()
	w := timewindow.NewWithLocation(ist, time.Hour)
	store := newMemStore(w)
	cache := &fakeInvalidator{}

	day := at(2025, 3, 12, 0, 0)
	alloc := NewAllocator(store, store, w)
	b, err := alloc.Allocate(ctx, AllocationRequest{TheaterID: store.theater.ID, SlotID: store.slot(1), Date: day, UserID: uuid.New()})
	require.NoError(t, err)

	// A write outside the allocator reset the marker.
	store.markDate(store.slot(1), day, theaters.DateAvailable)

	r := NewReconciler(store, cache, w)
	found, err := r.Run(ctx)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, b.BookingID, found[0].BookingID)
	assert.Equal(t, "2025-03-12", found[0].Date)
	assert.True(t, found[0].Repaired)
	assert.Equal(t, []uuid.UUID{store.theater.ID}, cache.calls)

	th, _ := store.FindForDay(ctx, store.theater.ID, day)
	slot, _ := th.FindSlot(store.slot(1))
	assert.Equal(t, theaters.DateBooked, slot.StatusOn(day, w))

	found, err = r.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestReconcilerIgnoresFailedPayments(t *testing.T) {
	ctx := context.Background()
	w := timewindow.NewWithLocation(ist, time.Hour)
	store := newMemStore(w)

	day := at(2025, 3, 12, 0, 0)
	b, err := NewAllocator(store, store, w).Allocate(ctx, AllocationRequest{TheaterID: store.theater.ID, SlotID: store.slot(0), Date: day, UserID: uuid.New()})
	require.NoError(t, err)
	require.NoError(t, store.UpdatePaymentStatus(ctx, b.ID, PaymentFailed, ""))
	store.markDate(store.slot(0), day, theaters.DateAvailable)

	found, err := NewReconciler(store, nil, w).Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, found)
}
