package bookings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"theaterbook/internal/coupons"
	"theaterbook/internal/payments"
	"theaterbook/internal/theaters"
	"theaterbook/internal/timewindow"
	"theaterbook/pkg/logger"

	"github.com/google/uuid"
)

// CouponRedeemer records and undoes coupon use during checkout.
type CouponRedeemer interface {
	Redeem(ctx context.Context, u coupons.Usage) (*coupons.ApplyResult, error)
	Release(ctx context.Context, u coupons.Usage) error
}

// AvailabilityInvalidator drops cached availability after slot state changed.
type AvailabilityInvalidator interface {
	InvalidateAvailability(ctx context.Context, theaterID uuid.UUID)
}

// Notifier is told about confirmed bookings. Delivery is best effort.
type Notifier interface {
	BookingConfirmed(ctx context.Context, b *Booking) error
}

type CoordinatorDeps struct {
	Theaters  TheaterLoader
	Allocator *Allocator
	Bookings  Repository
	Coupons   CouponRedeemer
	Gateway   payments.Gateway
	Verifier  *payments.SignatureVerifier
	Window    *timewindow.Window
	Currency  string

	// Optional collaborators.
	Holds    HoldStore
	Cache    AvailabilityInvalidator
	Notifier Notifier
}

// Coordinator drives a checkout: availability check, coupon, allocation and
// payment verification. Allocation runs as a single transaction, so a failed
// step only has to undo the coupon redemption.
type Coordinator struct {
	deps CoordinatorDeps
	now  func() time.Time
	log  *logger.Logger
}

func NewCoordinator(deps CoordinatorDeps) *Coordinator {
	if deps.Currency == "" {
		deps.Currency = "INR"
	}
	return &Coordinator{deps: deps, now: time.Now, log: logger.GetDefault()}
}

type OrderRequest struct {
	UserID    string
	TheaterID uuid.UUID
	SlotID    uuid.UUID
	Date      time.Time
	Amount    float64
	Receipt   string
}

type OrderResult struct {
	Order     *payments.Order `json:"order"`
	Held      bool            `json:"held"`
	ExpiresAt *time.Time      `json:"hold_expires_at,omitempty"`
}

type CompleteRequest struct {
	UserID    uuid.UUID
	TheaterID uuid.UUID
	SlotID    uuid.UUID
	Date      time.Time
	DeviceID  string
	Coupon    string
	OrderID   string
	PaymentID string
	Signature string
	Details   Booking
}

type Confirmation struct {
	Booking *Booking `json:"booking"`
	State   State    `json:"state"`
}

type VerifyRequest struct {
	UserID    uuid.UUID
	OrderID   string
	PaymentID string
	Signature string
}

type VerifyResult struct {
	Verified bool `json:"verified"`
	Updated  int  `json:"bookings_updated"`
}

// precheck reports ErrSlotUnavailable when the slot is booked, outside its
// booking window or held by another user.
func (c *Coordinator) precheck(ctx context.Context, theaterID, slotID uuid.UUID, day time.Time, userID string) error {
	theater, err := c.deps.Theaters.FindForDay(ctx, theaterID, day)
	if err != nil {
		return err
	}
	slot, ok := theater.FindSlot(slotID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSlotNotFound, slotID)
	}
	if slot.StatusOn(day, c.deps.Window) == theaters.DateBooked {
		return ErrSlotUnavailable
	}
	bookable, err := c.deps.Window.IsSlotBookable(slot.StartTime, slot.EndTime, day, c.now())
	if err != nil {
		return err
	}
	if !bookable {
		return fmt.Errorf("%w: booking window closed", ErrSlotUnavailable)
	}

	if c.deps.Holds != nil {
		holder, err := c.deps.Holds.Holder(ctx, theaterID, slotID, day)
		if err != nil {
			c.log.WarnContext(ctx, "slot hold lookup failed", slog.Any("error", err))
		} else if holder != "" && holder != userID {
			return fmt.Errorf("%w: held by another checkout", ErrSlotUnavailable)
		}
	}
	return nil
}

// CreateOrder checks the slot, optionally holds it for the user and opens a
// gateway order for the amount.
func (c *Coordinator) CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	day := c.deps.Window.CivilDay(req.Date)
	if err := c.precheck(ctx, req.TheaterID, req.SlotID, day, req.UserID); err != nil {
		return nil, err
	}

	res := &OrderResult{}
	if c.deps.Holds != nil && req.UserID != "" {
		held, err := c.deps.Holds.Hold(ctx, req.TheaterID, req.SlotID, day, req.UserID)
		if err != nil {
			c.log.WarnContext(ctx, "slot hold failed", slog.Any("error", err))
		} else if !held {
			return nil, fmt.Errorf("%w: held by another checkout", ErrSlotUnavailable)
		}
		res.Held = held
	}

	receipt := req.Receipt
	if receipt == "" {
		receipt = "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	}
	order, err := c.deps.Gateway.CreateOrder(ctx, payments.OrderRequest{
		Amount:   payments.ToMinorUnits(req.Amount),
		Currency: c.deps.Currency,
		Receipt:  receipt,
		Notes: map[string]string{
			"theater_id": req.TheaterID.String(),
			"slot_id":    req.SlotID.String(),
			"date":       day.Format(timewindow.DayLayout),
		},
	})
	if err != nil {
		if res.Held {
			c.releaseHold(ctx, req.TheaterID, req.SlotID, day, req.UserID)
		}
		return nil, err
	}
	res.Order = order
	return res, nil
}

// CompleteBooking allocates the slot and, when payment proof is supplied,
// verifies it. A verification failure leaves the booking in place with a
// failed payment status.
func (c *Coordinator) CompleteBooking(ctx context.Context, req CompleteRequest) (*Confirmation, error) {
	day := c.deps.Window.CivilDay(req.Date)
	userID := req.UserID.String()

	if err := c.precheck(ctx, req.TheaterID, req.SlotID, day, userID); err != nil {
		return nil, err
	}

	details := req.Details
	details.OrderID = req.OrderID
	details.PaymentID = req.PaymentID
	details.PaymentStatus = PaymentPending

	var redeemed *coupons.Usage
	if code := strings.TrimSpace(req.Coupon); code != "" {
		usage := coupons.Usage{
			Code:       code,
			OrderValue: details.TotalAmount,
			TheaterID:  req.TheaterID.String(),
			UserID:     userID,
			DeviceID:   req.DeviceID,
		}
		res, err := c.deps.Coupons.Redeem(ctx, usage)
		if err != nil {
			return nil, err
		}
		details.CouponCode = res.Coupon.Code
		details.DiscountAmount = res.DiscountAmount
		redeemed = &usage
	}

	booking, err := c.deps.Allocator.Allocate(ctx, AllocationRequest{
		TheaterID: req.TheaterID,
		SlotID:    req.SlotID,
		Date:      day,
		UserID:    req.UserID,
		Details:   details,
	})
	if err != nil {
		if redeemed != nil {
			if rerr := c.deps.Coupons.Release(ctx, *redeemed); rerr != nil {
				c.log.ErrorContext(ctx, "failed to release coupon after allocation failure",
					slog.String("code", redeemed.Code),
					slog.String("user_id", userID),
					slog.Any("error", rerr),
				)
			}
		}
		return nil, err
	}

	c.releaseHold(ctx, req.TheaterID, req.SlotID, day, userID)
	if c.deps.Cache != nil {
		c.deps.Cache.InvalidateAvailability(ctx, req.TheaterID)
	}

	conf := &Confirmation{Booking: booking, State: StateAllocated}
	if req.PaymentID != "" && req.Signature != "" {
		if err := c.verify(ctx, req.OrderID, req.PaymentID, req.Signature); err != nil {
			c.setPaymentStatus(ctx, booking, PaymentFailed)
			conf.State = StateFailed
			return conf, err
		}
		c.setPaymentStatus(ctx, booking, PaymentCompleted)
		conf.State = StatePaymentVerified
	}

	if c.deps.Notifier != nil {
		if err := c.deps.Notifier.BookingConfirmed(ctx, booking); err != nil {
			c.log.WarnContext(ctx, "booking notification failed",
				slog.String("booking_id", booking.BookingID),
				slog.Any("error", err),
			)
		}
	}
	return conf, nil
}

// VerifyPayment checks a payment signature. A mismatch writes nothing. A
// match completes the caller's unpaid bookings of the order. Slot state is
// left alone.
func (c *Coordinator) VerifyPayment(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return nil, fmt.Errorf("%w: order_id, payment_id and signature are required", ErrInvalidInput)
	}
	if req.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id", ErrInvalidInput)
	}

	if err := c.verify(ctx, req.OrderID, req.PaymentID, req.Signature); err != nil {
		return &VerifyResult{Verified: false}, err
	}
	n, err := c.deps.Bookings.CompleteOrderPayment(ctx, req.OrderID, req.UserID, req.PaymentID)
	if err != nil {
		c.log.ErrorContext(ctx, "failed to record payment status",
			slog.String("order_id", req.OrderID),
			slog.Any("error", err),
		)
	}
	return &VerifyResult{Verified: true, Updated: int(n)}, nil
}

func (c *Coordinator) verify(ctx context.Context, orderID, paymentID, signature string) error {
	err := c.deps.Verifier.Verify(orderID, paymentID, signature)
	c.log.LogPaymentVerification(ctx, orderID, paymentID, err == nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPaymentVerificationFailed, err)
	}
	return nil
}

func (c *Coordinator) setPaymentStatus(ctx context.Context, b *Booking, status PaymentStatus) {
	if err := c.deps.Bookings.UpdatePaymentStatus(ctx, b.ID, status, b.PaymentID); err != nil {
		c.log.ErrorContext(ctx, "failed to update payment status",
			slog.String("booking_id", b.BookingID),
			slog.String("status", string(status)),
			slog.Any("error", err),
		)
		return
	}
	b.PaymentStatus = status
}

func (c *Coordinator) releaseHold(ctx context.Context, theaterID, slotID uuid.UUID, day time.Time, userID string) {
	if c.deps.Holds == nil || userID == "" {
		return
	}
	if err := c.deps.Holds.Release(ctx, theaterID, slotID, day, userID); err != nil && !errors.Is(err, context.Canceled) {
		c.log.WarnContext(ctx, "failed to release slot hold", slog.Any("error", err))
	}
}
