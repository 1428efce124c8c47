package theaters

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TheaterStatus string

const (
	StatusAvailable        TheaterStatus = "available"
	StatusComingSoon       TheaterStatus = "coming soon"
	StatusUnderMaintenance TheaterStatus = "under maintenance"
)

func IsValidStatus(s string) bool {
	switch TheaterStatus(s) {
	case StatusAvailable, StatusComingSoon, StatusUnderMaintenance:
		return true
	default:
		return false
	}
}

// DateStatus is the state of one slot on one civil day. A day with no
// SlotDate row is implicitly available.
type DateStatus string

const (
	DateAvailable   DateStatus = "available"
	DateBooked      DateStatus = "booked"
	DateUnavailable DateStatus = "unavailable"
)

type Theater struct {
	ID                      uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BranchID                *uuid.UUID    `gorm:"type:uuid;index" json:"branch_id,omitempty"`
	Name                    string        `gorm:"not null" json:"name"`
	Location                string        `gorm:"not null;index" json:"location"`
	LocationLink            string        `json:"location_link,omitempty"`
	MaxCapacity             int           `gorm:"not null" json:"max_capacity"`
	GroupSize               int           `gorm:"not null" json:"group_size"`
	Amenities               []string      `gorm:"type:jsonb;serializer:json" json:"amenities"`
	Price                   float64       `gorm:"not null" json:"price"`
	MinimumDecorationAmount float64       `gorm:"not null;default:0" json:"minimum_decoration_amount"`
	ExtraPerPerson          float64       `gorm:"not null;default:0" json:"extra_per_person"`
	Images                  []string      `gorm:"type:jsonb;serializer:json" json:"images"`
	Status                  TheaterStatus `gorm:"type:varchar(32);not null;default:'available'" json:"status"`
	CreatedAt               time.Time     `json:"created_at"`
	UpdatedAt               time.Time     `json:"updated_at"`

	Slots []Slot `gorm:"foreignKey:TheaterID" json:"slots"`

	slotIndex map[uuid.UUID]int
}

// Slot is a recurring daily time window of a theater, kept in Position order.
type Slot struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TheaterID uuid.UUID `gorm:"type:uuid;not null;index" json:"theater_id"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	StartTime string    `gorm:"type:varchar(16);not null" json:"start_time"`
	EndTime   string    `gorm:"type:varchar(16);not null" json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Dates []SlotDate `gorm:"foreignKey:SlotID" json:"dates,omitempty"`
}

// SlotDate records the status of a slot on one civil day. Date is always the
// business-zone midnight of that day, which makes (slot_id, date) unique per day.
type SlotDate struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SlotID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_slot_dates_slot_date" json:"slot_id"`
	TheaterID uuid.UUID  `gorm:"type:uuid;not null;index" json:"theater_id"`
	Date      time.Time  `gorm:"type:timestamptz;not null;uniqueIndex:idx_slot_dates_slot_date" json:"date"`
	Status    DateStatus `gorm:"type:varchar(16);not null;default:'available'" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Theater) TableName() string {
	return "theaters"
}

func (Slot) TableName() string {
	return "theater_slots"
}

func (SlotDate) TableName() string {
	return "slot_dates"
}

func (t *Theater) AfterFind(tx *gorm.DB) error {
	t.IndexSlots()
	return nil
}

// IndexSlots rebuilds the id to position lookup over Slots.
func (t *Theater) IndexSlots() {
	t.slotIndex = make(map[uuid.UUID]int, len(t.Slots))
	for i, s := range t.Slots {
		t.slotIndex[s.ID] = i
	}
}

// FindSlot returns the slot with the given id.
func (t *Theater) FindSlot(id uuid.UUID) (*Slot, bool) {
	if len(t.slotIndex) != len(t.Slots) {
		t.IndexSlots()
	}
	i, ok := t.slotIndex[id]
	if !ok || t.Slots[i].ID != id {
		return nil, false
	}
	return &t.Slots[i], true
}
