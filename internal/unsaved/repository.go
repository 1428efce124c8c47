package unsaved

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("unsaved booking not found")

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	List(ctx context.Context) ([]Booking, error)
	// DueForReminder returns pending snapshots created before cutoff that
	// carry an email and were never reminded.
	DueForReminder(ctx context.Context, cutoff time.Time, limit int) ([]Booking, error)
	MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var b Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) List(ctx context.Context) ([]Booking, error) {
	var list []Booking
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *repository) DueForReminder(ctx context.Context, cutoff time.Time, limit int) ([]Booking, error) {
	var list []Booking
	err := r.db.WithContext(ctx).
		Where("payment_status = ? AND reminder_sent_at IS NULL AND email <> '' AND created_at < ?", StatusPending, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *repository) MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&Booking{}).Where("id = ?", id).Update("reminder_sent_at", at).Error
}
