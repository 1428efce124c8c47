package branches

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBranchNotFound = errors.New("branch not found")
	ErrBranchExists   = errors.New("branch with this name or code already exists")
)

type Repository interface {
	Create(ctx context.Context, branch *Branch) error
	FindByID(ctx context.Context, id uuid.UUID) (*Branch, error)
	ExistsByNameOrCode(ctx context.Context, name, code string, exclude uuid.UUID) (bool, error)
	List(ctx context.Context) ([]Branch, error)
	Update(ctx context.Context, branch *Branch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, branch *Branch) error {
	return r.db.WithContext(ctx).Create(branch).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Branch, error) {
	var branch Branch
	if err := r.db.WithContext(ctx).First(&branch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}
	return &branch, nil
}

func (r *repository) ExistsByNameOrCode(ctx context.Context, name, code string, exclude uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&Branch{}).Where("branch_name = ? OR code = ?", name, code)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) List(ctx context.Context) ([]Branch, error) {
	var list []Branch
	err := r.db.WithContext(ctx).Order("branch_name ASC").Find(&list).Error
	return list, err
}

func (r *repository) Update(ctx context.Context, branch *Branch) error {
	return r.db.WithContext(ctx).Save(branch).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Branch{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBranchNotFound
	}
	return nil
}
