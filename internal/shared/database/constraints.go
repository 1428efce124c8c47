package database

import (
	"gorm.io/gorm"
)

// constraintStatements back the hot read paths of the booking engine. The
// (theater_id, date, slot_id) uniqueness of bookings is declared on the model.
var constraintStatements = []string{
	// Availability loads every slot date of one theater on one day.
	`CREATE INDEX IF NOT EXISTS idx_slot_dates_theater_date
		ON slot_dates (theater_id, date)`,

	// Reconciliation scans paid bookings by day.
	`CREATE INDEX IF NOT EXISTS idx_bookings_status_date
		ON bookings (payment_status, date)`,

	// Reminder job only ever reads pending snapshots that were not reminded.
	`CREATE INDEX IF NOT EXISTS idx_unsaved_reminder_due
		ON unsaved_bookings (created_at)
		WHERE reminder_sent_at IS NULL AND payment_status = 'pending'`,

	`CREATE INDEX IF NOT EXISTS idx_expenses_branch_created
		ON expenses (branch_id, created_at)`,
}

// MigrateConstraints adds indexes that AutoMigrate cannot express.
func MigrateConstraints(db *gorm.DB) error {
	for _, stmt := range constraintStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
