package bookings

import (
	"theaterbook/internal/payments"

	"github.com/google/uuid"
)

type BookingListResponse struct {
	Bookings []Booking `json:"bookings"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

type SlotSummary struct {
	ID        uuid.UUID `json:"id"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
}

// BookingWithSlot is a booking joined with the times of its slot. Slot is
// nil when the slot was removed from the theater afterwards.
type BookingWithSlot struct {
	Booking
	Slot *SlotSummary `json:"slot"`
}

type PaymentWithBooking struct {
	payments.Payment
	BookingDetails *Booking `json:"booking_details"`
}
