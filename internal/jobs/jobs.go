// Package jobs runs the periodic maintenance tasks of the booking engine.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"theaterbook/internal/bookings"
	"theaterbook/internal/shared/config"
	"theaterbook/internal/timewindow"
	"theaterbook/internal/unsaved"
	"theaterbook/pkg/logger"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

type Reconciler interface {
	Run(ctx context.Context) ([]bookings.Inconsistency, error)
}

type SlotDatePruner interface {
	PruneSlotDatesBefore(ctx context.Context, day time.Time) (int64, error)
}

type UnsavedStore interface {
	DueForReminder(ctx context.Context, cutoff time.Time, limit int) ([]unsaved.Booking, error)
	MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error
}

type Reminder interface {
	UnsavedReminder(ctx context.Context, b *unsaved.Booking) error
}

type Deps struct {
	Reconciler Reconciler
	Pruner     SlotDatePruner
	Unsaved    UnsavedStore
	Reminder   Reminder
	Window     *timewindow.Window
}

// Runner owns the scheduler and the job bodies.
type Runner struct {
	deps      Deps
	cfg       config.JobsConfig
	scheduler gocron.Scheduler
	log       *logger.Logger
	now       func() time.Time
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewRunner(deps Deps, cfg config.JobsConfig) *Runner {
	return &Runner{deps: deps, cfg: cfg, log: logger.GetDefault(), now: time.Now}
}

// ReconcileSlotDates repairs bookings missing their booked marker.
func (r *Runner) ReconcileSlotDates(ctx context.Context) (int, error) {
	found, err := r.deps.Reconciler.Run(ctx)
	if err != nil {
		return 0, fmt.Errorf("reconcile slot dates: %w", err)
	}
	repaired := 0
	for _, inc := range found {
		if inc.Repaired {
			repaired++
		}
	}
	if len(found) > 0 {
		r.log.WarnContext(ctx, "slot date markers reconciled",
			slog.Int("found", len(found)), slog.Int("repaired", repaired))
	}
	return repaired, nil
}

// PrunePastSlotDates deletes slot date rows before today in the business zone.
func (r *Runner) PrunePastSlotDates(ctx context.Context) (int64, error) {
	today := r.deps.Window.CivilDay(r.now())
	n, err := r.deps.Pruner.PruneSlotDatesBefore(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("prune slot dates: %w", err)
	}
	if n > 0 {
		r.log.InfoContext(ctx, "pruned past slot dates", slog.Int64("rows", n), slog.String("before", r.deps.Window.DayKey(today)))
	}
	return n, nil
}

// RemindUnsaved mails one batch of abandoned checkouts. A snapshot is marked
// only after its reminder was handed off, so failures are retried next run.
func (r *Runner) RemindUnsaved(ctx context.Context) (int, error) {
	now := r.now()
	due, err := r.deps.Unsaved.DueForReminder(ctx, now.Add(-r.cfg.UnsavedReminderAfter), r.cfg.UnsavedReminderBatch)
	if err != nil {
		return 0, fmt.Errorf("load unsaved bookings: %w", err)
	}
	sent := 0
	for i := range due {
		b := &due[i]
		if err := r.deps.Reminder.UnsavedReminder(ctx, b); err != nil {
			r.log.ErrorContext(ctx, "unsaved reminder failed", slog.String("booking_id", b.BookingID), slog.Any("error", err))
			continue
		}
		if err := r.deps.Unsaved.MarkReminded(ctx, b.ID, now); err != nil {
			return sent, fmt.Errorf("mark reminded: %w", err)
		}
		sent++
	}
	return sent, nil
}

func (r *Runner) task(name string, fn func(context.Context) error) func() {
	return func() {
		start := time.Now()
		if err := fn(r.ctx); err != nil {
			r.log.WithError(err).ErrorContext(r.ctx, "job failed", slog.String("job", name))
			return
		}
		r.log.DebugContext(r.ctx, "job finished", slog.String("job", name), slog.Duration("took", time.Since(start)))
	}
}

func (r *Runner) register(name string, every time.Duration, fn func(context.Context) error) error {
	if every <= 0 {
		return nil
	}
	_, err := r.scheduler.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(r.task(name, fn)),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

// Start schedules every job with a positive interval and starts the scheduler.
func (r *Runner) Start(ctx context.Context) error {
	s, err := gocron.NewScheduler(gocron.WithLocation(r.deps.Window.Location()))
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	r.scheduler = s
	r.ctx, r.cancel = context.WithCancel(ctx)

	jobs := []struct {
		name  string
		every time.Duration
		fn    func(context.Context) error
	}{
		{"reconcile_slot_dates", r.cfg.ReconcileInterval, func(ctx context.Context) error {
			_, err := r.ReconcileSlotDates(ctx)
			return err
		}},
		{"prune_slot_dates", r.cfg.PruneInterval, func(ctx context.Context) error {
			_, err := r.PrunePastSlotDates(ctx)
			return err
		}},
		{"remind_unsaved", r.cfg.UnsavedReminderEvery, func(ctx context.Context) error {
			_, err := r.RemindUnsaved(ctx)
			return err
		}},
	}
	for _, j := range jobs {
		if err := r.register(j.name, j.every, j.fn); err != nil {
			return err
		}
	}

	s.Start()
	r.log.Info("background jobs started", slog.Int("count", len(s.Jobs())))
	return nil
}

func (r *Runner) Stop() error {
	if r.scheduler == nil {
		return nil
	}
	r.cancel()
	return r.scheduler.Shutdown()
}
