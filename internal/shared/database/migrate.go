package database

import (
	"fmt"

	"theaterbook/internal/auth"
	"theaterbook/internal/bookings"
	"theaterbook/internal/branches"
	"theaterbook/internal/contact"
	"theaterbook/internal/coupons"
	"theaterbook/internal/expenses"
	"theaterbook/internal/theaters"
	"theaterbook/internal/unsaved"
	"theaterbook/internal/users"

	"gorm.io/gorm"
)

// Models lists every table owned by the service.
func Models() []interface{} {
	return []interface{}{
		&branches.Branch{},
		&users.User{},
		&auth.OTP{},
		&theaters.Theater{},
		&theaters.Slot{},
		&theaters.SlotDate{},
		&coupons.Coupon{},
		&bookings.Booking{},
		&unsaved.Booking{},
		&expenses.Expense{},
		&contact.Contact{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to enable uuid-ossp: %w", err)
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	return MigrateConstraints(db)
}
