package expenses

import (
	"time"

	"github.com/google/uuid"
)

type Expense struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description,omitempty"`
	Amount      float64   `gorm:"not null;check:amount >= 0" json:"amount"`
	Category    string    `gorm:"not null;index" json:"category"`
	BranchID    uuid.UUID `gorm:"type:uuid;not null;index" json:"branch_id"`
	TheaterID   uuid.UUID `gorm:"type:uuid;not null;index" json:"theater_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Expense) TableName() string {
	return "expenses"
}
