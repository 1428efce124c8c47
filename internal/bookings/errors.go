package bookings

import "errors"

var (
	ErrInvalidInput              = errors.New("invalid input")
	ErrBookingNotFound           = errors.New("booking not found")
	ErrSlotNotFound              = errors.New("slot not found")
	ErrSlotAlreadyBooked         = errors.New("slot already booked for this date")
	ErrSlotUnavailable           = errors.New("slot is not available")
	ErrPaymentVerificationFailed = errors.New("payment verification failed")
	ErrAllocationInconsistent    = errors.New("booking exists but slot date is not marked booked")
	ErrForbidden                 = errors.New("not allowed to access this booking")
)
