package bookings

import (
	"time"

	"github.com/google/uuid"
)

type SelectedCake struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity" binding:"min=1"`
}

type AddOns struct {
	Decorations map[string]int `json:"decorations,omitempty"`
	Roses       map[string]int `json:"roses,omitempty"`
	Photography []string       `json:"photography,omitempty"`
}

// Booking is a paid or pending reservation of one slot of one theater on one
// civil day. (theater_id, date, slot_id) is unique.
type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID string    `gorm:"type:varchar(40);uniqueIndex:idx_bookings_booking_id;not null" json:"booking_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TheaterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookings_theater_date_slot,priority:1" json:"theater_id"`
	Date      time.Time `gorm:"type:timestamptz;not null;uniqueIndex:idx_bookings_theater_date_slot,priority:2" json:"date"`
	SlotID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookings_theater_date_slot,priority:3" json:"slot_id"`

	FullName        string                  `json:"full_name"`
	NumberOfPeople  int                     `json:"number_of_people"`
	PhoneNumber     string                  `json:"phone_number"`
	WhatsappNumber  string                  `json:"whatsapp_number"`
	Email           string                  `json:"email"`
	AddDecorations  bool                    `json:"add_decorations"`
	Nickname        string                  `json:"nickname"`
	PartnerNickname string                  `json:"partner_nickname"`
	Occasion        map[string]interface{}  `gorm:"type:jsonb;serializer:json" json:"occasion"`
	IsEggless       bool                    `gorm:"not null;default:false" json:"is_eggless"`
	CakeText        string                  `json:"cake_text"`
	SelectedCakes   map[string]SelectedCake `gorm:"type:jsonb;serializer:json" json:"selected_cakes"`
	AddOns          AddOns                  `gorm:"type:jsonb;serializer:json" json:"add_ons"`

	PaymentStatus  PaymentStatus `gorm:"type:varchar(16);not null;default:'pending';index" json:"payment_status"`
	PaymentAmount  float64       `gorm:"not null" json:"payment_amount"`
	TotalAmount    float64       `gorm:"not null" json:"total_amount"`
	DiscountAmount float64       `gorm:"not null;default:0" json:"discount_amount"`
	CouponCode     string        `gorm:"type:varchar(64)" json:"coupon_code,omitempty"`
	OrderID        string        `gorm:"type:varchar(64);index" json:"order_id,omitempty"`
	PaymentID      string        `gorm:"type:varchar(64)" json:"payment_id,omitempty"`
	RefundStatus   string        `gorm:"type:varchar(32)" json:"refund_status,omitempty"`
	IsRead         bool          `gorm:"not null;default:false" json:"is_read"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (Booking) TableName() string {
	return "bookings"
}
