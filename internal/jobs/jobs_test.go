package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"theaterbook/internal/bookings"
	"theaterbook/internal/shared/config"
	"theaterbook/internal/timewindow"
	"theaterbook/internal/unsaved"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reconcilerFunc func(ctx context.Context) ([]bookings.Inconsistency, error)

func (f reconcilerFunc) Run(ctx context.Context) ([]bookings.Inconsistency, error) { return f(ctx) }

type pruner struct{ before time.Time }

func (p *pruner) PruneSlotDatesBefore(_ context.Context, day time.Time) (int64, error) {
	p.before = day
	return 3, nil
}

type unsavedStore struct {
	due      []unsaved.Booking
	cutoff   time.Time
	limit    int
	reminded map[uuid.UUID]time.Time
}

func (u *unsavedStore) DueForReminder(_ context.Context, cutoff time.Time, limit int) ([]unsaved.Booking, error) {
	u.cutoff, u.limit = cutoff, limit
	return u.due, nil
}

func (u *unsavedStore) MarkReminded(_ context.Context, id uuid.UUID, at time.Time) error {
	u.reminded[id] = at
	return nil
}

type reminder struct{ fail map[string]bool }

func (r reminder) UnsavedReminder(_ context.Context, b *unsaved.Booking) error {
	if r.fail[b.BookingID] {
		return errors.New("broker down")
	}
	return nil
}

func TestPruneUsesBusinessDay(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	p := &pruner{}
	r := NewRunner(Deps{Pruner: p, Window: timewindow.NewWithLocation(ist, time.Hour)}, config.JobsConfig{})
	// 20:00 UTC on the 10th is already the 11th in IST.
	r.now = func() time.Time { return time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC) }

	n, err := r.PrunePastSlotDates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.True(t, p.before.Equal(time.Date(2025, 3, 11, 0, 0, 0, 0, ist)))
}

func TestRemindUnsavedMarksOnlyDelivered(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ok := unsaved.Booking{ID: uuid.New(), BookingID: "BK-1", Email: "a@b.co"}
	bad := unsaved.Booking{ID: uuid.New(), BookingID: "BK-2", Email: "c@d.co"}
	store := &unsavedStore{due: []unsaved.Booking{ok, bad}, reminded: map[uuid.UUID]time.Time{}}

	r := NewRunner(Deps{Unsaved: store, Reminder: reminder{fail: map[string]bool{"BK-2": true}}},
		config.JobsConfig{UnsavedReminderAfter: time.Hour, UnsavedReminderBatch: 25})
	r.now = func() time.Time { return now }

	sent, err := r.RemindUnsaved(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, now.Add(-time.Hour), store.cutoff)
	assert.Equal(t, 25, store.limit)
	assert.Contains(t, store.reminded, ok.ID)
	assert.NotContains(t, store.reminded, bad.ID)
}

func TestReconcileCountsRepairs(t *testing.T) {
	r := NewRunner(Deps{Reconciler: reconcilerFunc(func(context.Context) ([]bookings.Inconsistency, error) {
		return []bookings.Inconsistency{{Repaired: true}, {Repaired: false}}, nil
	})}, config.JobsConfig{})
	n, err := r.ReconcileSlotDates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	r = NewRunner(Deps{Reconciler: reconcilerFunc(func(context.Context) ([]bookings.Inconsistency, error) {
		return nil, errors.New("db down")
	})}, config.JobsConfig{})
	_, err = r.ReconcileSlotDates(context.Background())
	assert.Error(t, err)
}

func TestStartSkipsDisabledJobs(t *testing.T) {
	r := NewRunner(Deps{Window: timewindow.New("Asia/Kolkata", time.Hour)}, config.JobsConfig{PruneInterval: time.Hour})
	r.deps.Pruner = &pruner{}
	require.NoError(t, r.Start(context.Background()))
	assert.Len(t, r.scheduler.Jobs(), 1)
	assert.NoError(t, r.Stop())
}
