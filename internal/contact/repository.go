package contact

import (
	"context"
	"errors"
	"time"

	"theaterbook/internal/shared/dberr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrContactNotFound = errors.New("contact not found")
	errDuplicateMobile = errors.New("contact with this mobile number exists")
)

type Repository interface {
	Create(ctx context.Context, c *Contact) error
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	FindByMobile(ctx context.Context, mobile string) (*Contact, error)
	List(ctx context.Context, from, to time.Time) ([]Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Contact) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if dberr.IsUniqueViolation(err) {
		return errDuplicateMobile
	}
	return err
}

func (r *repository) first(ctx context.Context, query string, arg interface{}) (*Contact, error) {
	var c Contact
	if err := r.db.WithContext(ctx).Where(query, arg).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Contact, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) FindByMobile(ctx context.Context, mobile string) (*Contact, error) {
	return r.first(ctx, "mobile_number = ?", mobile)
}

func (r *repository) List(ctx context.Context, from, to time.Time) ([]Contact, error) {
	var list []Contact
	q := r.db.WithContext(ctx)
	if !from.IsZero() && !to.IsZero() {
		q = q.Where("created_at BETWEEN ? AND ?", from, to)
	}
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Contact{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}
