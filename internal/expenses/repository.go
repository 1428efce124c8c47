package expenses

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrExpenseNotFound = errors.New("expense not found")

type Repository interface {
	Create(ctx context.Context, e *Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	// ListByBranch filters on created_at when from and to are both set.
	ListByBranch(ctx context.Context, branchID uuid.UUID, from, to time.Time) ([]Expense, error)
	Update(ctx context.Context, e *Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, e *Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Expense, error) {
	var e Expense
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *repository) ListByBranch(ctx context.Context, branchID uuid.UUID, from, to time.Time) ([]Expense, error) {
	var list []Expense
	q := r.db.WithContext(ctx).Where("branch_id = ?", branchID)
	if !from.IsZero() && !to.IsZero() {
		q = q.Where("created_at BETWEEN ? AND ?", from, to)
	}
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *repository) Update(ctx context.Context, e *Expense) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Expense{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrExpenseNotFound
	}
	return nil
}
