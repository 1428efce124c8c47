package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"theaterbook/internal/shared/dberr"
	"theaterbook/internal/theaters"
	"theaterbook/internal/timewindow"
	"theaterbook/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const bookingIDIndex = "idx_bookings_booking_id"

// errDuplicateBookingID signals a booking id collision, which is retried.
var errDuplicateBookingID = errors.New("duplicate booking id")

// TheaterLoader loads a theater with its slots and the slot dates of one day.
type TheaterLoader interface {
	FindForDay(ctx context.Context, id uuid.UUID, day time.Time) (*theaters.Theater, error)
}

// AllocationStore persists a booking together with its slot date marker.
type AllocationStore interface {
	// Commit inserts b and marks (b.SlotID, b.Date) booked as one unit. A
	// second booking of the same tuple fails with ErrSlotAlreadyBooked.
	Commit(ctx context.Context, b *Booking) error
}

type AllocationRequest struct {
	TheaterID uuid.UUID
	SlotID    uuid.UUID
	Date      time.Time
	UserID    uuid.UUID
	// Details carries the customer, amount and payment fields of the booking.
	Details Booking
}

// Allocator turns a (theater, slot, date) request into a booking. The storage
// unique index on (theater_id, date, slot_id) decides races.
type Allocator struct {
	theaters TheaterLoader
	store    AllocationStore
	window   *timewindow.Window
	now      func() time.Time
	log      *logger.Logger
}

func NewAllocator(loader TheaterLoader, store AllocationStore, window *timewindow.Window) *Allocator {
	return &Allocator{
		theaters: loader,
		store:    store,
		window:   window,
		now:      time.Now,
		log:      logger.GetDefault(),
	}
}

// NewBookingID returns BK-<unix millis>-<6 random letters>.
func NewBookingID(now time.Time) (string, error) {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		suffix[i] = letters[n.Int64()]
	}
	return fmt.Sprintf("BK-%d-%s", now.UnixMilli(), suffix), nil
}

// Allocate books the slot for the civil day of req.Date.
func (a *Allocator) Allocate(ctx context.Context, req AllocationRequest) (*Booking, error) {
	day := a.window.CivilDay(req.Date)
	dayKey := day.Format(timewindow.DayLayout)

	theater, err := a.theaters.FindForDay(ctx, req.TheaterID, day)
	if err != nil {
		return nil, err
	}
	slot, ok := theater.FindSlot(req.SlotID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, req.SlotID)
	}
	if slot.StatusOn(day, a.window) == theaters.DateBooked {
		a.log.LogAllocationConflict(ctx, req.TheaterID.String(), req.SlotID.String(), dayKey, req.UserID.String())
		return nil, ErrSlotAlreadyBooked
	}

	b := req.Details
	b.ID = uuid.Nil
	b.TheaterID = req.TheaterID
	b.SlotID = req.SlotID
	b.UserID = req.UserID
	b.Date = day
	if b.PaymentStatus == "" {
		b.PaymentStatus = PaymentPending
	}

	for attempt := 0; attempt < 3; attempt++ {
		if b.BookingID, err = NewBookingID(a.now()); err != nil {
			return nil, fmt.Errorf("failed to generate booking id: %w", err)
		}
		err = a.store.Commit(ctx, &b)
		if !errors.Is(err, errDuplicateBookingID) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, ErrSlotAlreadyBooked) {
			a.log.LogAllocationConflict(ctx, req.TheaterID.String(), req.SlotID.String(), dayKey, req.UserID.String())
		}
		return nil, err
	}

	a.log.LogBookingCreated(ctx, b.BookingID, b.TheaterID.String(), b.SlotID.String(), dayKey, b.UserID.String())
	return &b, nil
}

type gormAllocationStore struct {
	db *gorm.DB
}

func NewAllocationStore(db *gorm.DB) AllocationStore {
	return &gormAllocationStore{db: db}
}

func (s *gormAllocationStore) Commit(ctx context.Context, b *Booking) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		return markBooked(tx, b.TheaterID, b.SlotID, b.Date)
	})
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err) && dberr.Constraint(err) == bookingIDIndex:
		return errDuplicateBookingID
	case dberr.IsUniqueViolation(err):
		return ErrSlotAlreadyBooked
	default:
		return fmt.Errorf("failed to commit booking: %w", err)
	}
}

// markBooked upserts the slot date row of day to booked.
func markBooked(tx *gorm.DB, theaterID, slotID uuid.UUID, day time.Time) error {
	row := theaters.SlotDate{
		SlotID:    slotID,
		TheaterID: theaterID,
		Date:      day,
		Status:    theaters.DateBooked,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slot_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":     theaters.DateBooked,
			"updated_at": gorm.Expr("NOW()"),
		}),
	}).Create(&row).Error
}
