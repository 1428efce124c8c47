package contact

import (
	"time"

	"github.com/google/uuid"
)

// Contact is an enquiry left on the public site. One row per mobile number.
type Contact struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FirstName    string    `gorm:"not null" json:"first_name"`
	LastName     string    `gorm:"not null" json:"last_name"`
	MobileNumber string    `gorm:"type:varchar(20);not null;uniqueIndex" json:"mobile_number"`
	Email        string    `json:"email"`
	Occasion     string    `json:"occasion"`
	AddOns       []string  `gorm:"type:jsonb;serializer:json" json:"add_ons"`
	Details      string    `json:"details"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Contact) TableName() string {
	return "contacts"
}
