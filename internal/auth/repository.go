package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrOTPNotFound = errors.New("no pending code for this email")

type Repository interface {
	// Upsert stores otp as the only pending code of its email.
	Upsert(ctx context.Context, otp *OTP) error
	FindByEmail(ctx context.Context, email string) (*OTP, error)
	DeleteByEmail(ctx context.Context, email string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Upsert(ctx context.Context, otp *OTP) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"code_hash", "expires_at", "updated_at"}),
	}).Create(otp).Error
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*OTP, error) {
	var otp OTP
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&otp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOTPNotFound
		}
		return nil, err
	}
	return &otp, nil
}

func (r *repository) DeleteByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Where("email = ?", email).Delete(&OTP{}).Error
}
