package unsaved

import (
	"time"

	"theaterbook/internal/bookings"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusCancelled PaymentStatus = "cancelled"
	StatusFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCancelled, StatusFailed:
		return true
	}
	return false
}

// Booking is a checkout snapshot saved before payment went through. It never
// occupies a slot.
type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID string    `gorm:"type:varchar(40);uniqueIndex;not null" json:"booking_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TheaterID uuid.UUID `gorm:"type:uuid;not null;index" json:"theater_id"`
	SlotID    uuid.UUID `gorm:"type:uuid;not null" json:"slot_id"`
	Date      time.Time `gorm:"type:timestamptz" json:"date"`

	FullName        string                           `json:"full_name"`
	NumberOfPeople  int                              `json:"number_of_people"`
	PhoneNumber     string                           `json:"phone_number"`
	WhatsappNumber  string                           `json:"whatsapp_number"`
	Email           string                           `json:"email"`
	AddDecorations  bool                             `json:"add_decorations"`
	Nickname        string                           `json:"nickname"`
	PartnerNickname string                           `json:"partner_nickname"`
	Occasion        map[string]interface{}           `gorm:"type:jsonb;serializer:json" json:"occasion"`
	IsEggless       bool                             `gorm:"not null;default:false" json:"is_eggless"`
	CakeText        string                           `json:"cake_text"`
	SelectedCakes   map[string]bookings.SelectedCake `gorm:"type:jsonb;serializer:json" json:"selected_cakes"`
	AddOns          bookings.AddOns                  `gorm:"type:jsonb;serializer:json" json:"add_ons"`

	PaymentStatus  PaymentStatus `gorm:"type:varchar(16);not null;default:'pending';index" json:"payment_status"`
	PaymentAmount  float64       `gorm:"not null" json:"payment_amount"`
	TotalAmount    float64       `gorm:"not null" json:"total_amount"`
	OrderID        string        `gorm:"type:varchar(64)" json:"order_id,omitempty"`
	IsRead         bool          `gorm:"not null;default:false" json:"is_read"`
	ReminderSentAt *time.Time    `json:"reminder_sent_at,omitempty"`
	CreatedAt      time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (Booking) TableName() string {
	return "unsaved_bookings"
}
