package coupons

import (
	"context"
	"errors"

	"theaterbook/internal/shared/dberr"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCouponNotFound = errors.New("coupon not found")
	ErrCouponExists   = errors.New("coupon code already exists")
)

type Repository interface {
	Create(ctx context.Context, c *Coupon) error
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, typ CouponType) ([]Coupon, error)
	Update(ctx context.Context, c *Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Mutate loads the coupon by code under a row lock, applies fn and saves
	// the result when fn succeeds.
	Mutate(ctx context.Context, code string, fn func(c *Coupon) error) (*Coupon, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCouponNotFound
	}
	return err
}

func (r *repository) Create(ctx context.Context, c *Coupon) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if dberr.IsUniqueViolation(err) {
		return ErrCouponExists
	}
	return err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error) {
	var c Coupon
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*Coupon, error) {
	var c Coupon
	if err := r.db.WithContext(ctx).First(&c, "code = ?", code).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *repository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Coupon{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *repository) List(ctx context.Context, typ CouponType) ([]Coupon, error) {
	var list []Coupon
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if typ != "" {
		q = q.Where("type = ?", typ)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *repository) Update(ctx context.Context, c *Coupon) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Coupon{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCouponNotFound
	}
	return nil
}

func (r *repository) Mutate(ctx context.Context, code string, fn func(c *Coupon) error) (*Coupon, error) {
	var out Coupon
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&out, "code = ?", code).Error; err != nil {
			return notFound(err)
		}
		if err := fn(&out); err != nil {
			return err
		}
		return tx.Save(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
