package bookings

import (
	"context"
	"errors"
	"time"

	"theaterbook/internal/theaters"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListQuery struct {
	Page          int           `form:"page"`
	Limit         int           `form:"limit"`
	PaymentStatus PaymentStatus `form:"payment_status"`
	From          string        `form:"from"`
	To            string        `form:"to"`

	from, to time.Time
}

type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	List(ctx context.Context, query ListQuery) ([]Booking, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, query ListQuery) ([]Booking, int64, error)
	ListByTheater(ctx context.Context, theaterID uuid.UUID) ([]Booking, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID, query ListQuery) ([]Booking, int64, error)
	FindByOrderIDs(ctx context.Context, orderIDs []string) ([]Booking, error)

	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status PaymentStatus, paymentID string) error
	// CompleteOrderPayment marks the user's not yet completed bookings of an
	// order as paid.
	CompleteOrderPayment(ctx context.Context, orderID string, userID uuid.UUID, paymentID string) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error

	// FindUnmarked returns slot holding bookings whose slot date row is
	// missing or not booked.
	FindUnmarked(ctx context.Context, limit int) ([]Booking, error)
	// MarkSlotBooked upserts the slot date row of b to booked.
	MarkSlotBooked(ctx context.Context, b *Booking) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) applyFilters(q *gorm.DB, query ListQuery) *gorm.DB {
	if query.PaymentStatus != "" {
		q = q.Where("bookings.payment_status = ?", query.PaymentStatus)
	}
	if !query.from.IsZero() {
		q = q.Where("bookings.date >= ?", query.from)
	}
	if !query.to.IsZero() {
		q = q.Where("bookings.date <= ?", query.to)
	}
	return q
}

func (r *repository) paginate(base *gorm.DB, query ListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	// Set defaults
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	base = r.applyFilters(base, query)
	if err := base.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := base.
		Order("bookings.date DESC").
		Order("bookings.created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error
	return bookings, totalCount, err
}

func (r *repository) List(ctx context.Context, query ListQuery) ([]Booking, int64, error) {
	return r.paginate(r.db.WithContext(ctx).Model(&Booking{}), query)
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, query ListQuery) ([]Booking, int64, error) {
	return r.paginate(r.db.WithContext(ctx).Model(&Booking{}).Where("bookings.user_id = ?", userID), query)
}

func (r *repository) ListByTheater(ctx context.Context, theaterID uuid.UUID) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("theater_id = ?", theaterID).
		Order("date DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) ListByBranch(ctx context.Context, branchID uuid.UUID, query ListQuery) ([]Booking, int64, error) {
	base := r.db.WithContext(ctx).Model(&Booking{}).
		Joins("JOIN theaters ON theaters.id = bookings.theater_id").
		Where("theaters.branch_id = ?", branchID)
	return r.paginate(base, query)
}

func (r *repository) FindByOrderIDs(ctx context.Context, orderIDs []string) ([]Booking, error) {
	var bookings []Booking
	if len(orderIDs) == 0 {
		return bookings, nil
	}
	err := r.db.WithContext(ctx).Where("order_id IN ?", orderIDs).Find(&bookings).Error
	return bookings, err
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status PaymentStatus, paymentID string) error {
	updates := map[string]interface{}{
		"payment_status": status,
		"updated_at":     time.Now(),
	}
	if paymentID != "" {
		updates["payment_id"] = paymentID
	}
	res := r.db.WithContext(ctx).Model(&Booking{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) CompleteOrderPayment(ctx context.Context, orderID string, userID uuid.UUID, paymentID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Booking{}).
		Where("order_id = ? AND user_id = ? AND payment_status <> ?", orderID, userID, PaymentCompleted).
		Updates(map[string]interface{}{
			"payment_status": PaymentCompleted,
			"payment_id":     paymentID,
			"updated_at":     time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) MarkRead(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&Booking{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) FindUnmarked(ctx context.Context, limit int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Model(&Booking{}).
		Select("bookings.*").
		Joins("LEFT JOIN slot_dates ON slot_dates.slot_id = bookings.slot_id AND slot_dates.date >= bookings.date AND slot_dates.date < bookings.date + INTERVAL '1 day'").
		Where("bookings.payment_status IN ?", []PaymentStatus{PaymentPending, PaymentCompleted}).
		Where("slot_dates.id IS NULL OR slot_dates.status <> ?", theaters.DateBooked).
		Order("bookings.created_at ASC").
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) MarkSlotBooked(ctx context.Context, b *Booking) error {
	return markBooked(r.db.WithContext(ctx), b.TheaterID, b.SlotID, b.Date)
}
