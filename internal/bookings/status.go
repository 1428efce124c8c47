package bookings

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// IsValid checks if the payment status is known
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

func (s PaymentStatus) String() string {
	return string(s)
}

// HoldsSlot reports whether a booking in this state occupies its slot.
func (s PaymentStatus) HoldsSlot() bool {
	return s == PaymentPending || s == PaymentCompleted
}

// State is the progress of one checkout through the coordinator.
type State string

const (
	StateInitiated       State = "initiated"
	StateAllocated       State = "allocated"
	StatePaymentVerified State = "payment_verified"
	StateFailed          State = "failed"
)
