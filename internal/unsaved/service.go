package unsaved

import (
	"context"
	"errors"
	"fmt"
	"time"

	"theaterbook/internal/bookings"
	"theaterbook/internal/timewindow"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid unsaved booking input")

type Service interface {
	Save(ctx context.Context, userID string, req SaveRequest) (*Booking, error)
	Get(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context) ([]Booking, error)
}

type service struct {
	repo   Repository
	window *timewindow.Window
	now    func() time.Time
}

func NewService(repo Repository, window *timewindow.Window) Service {
	return &service{repo: repo, window: window, now: time.Now}
}

func (s *service) Save(ctx context.Context, userID string, req SaveRequest) (*Booking, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user id", ErrInvalidInput)
	}
	theaterID, err := uuid.Parse(req.TheaterID)
	if err != nil {
		return nil, fmt.Errorf("%w: theater id", ErrInvalidInput)
	}
	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		return nil, fmt.Errorf("%w: slot id", ErrInvalidInput)
	}
	day, err := s.window.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	status := PaymentStatus(req.PaymentStatus)
	if status == "" {
		status = StatusPending
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: payment status %q", ErrInvalidInput, req.PaymentStatus)
	}

	ref, err := bookings.NewBookingID(s.now())
	if err != nil {
		return nil, err
	}

	b := &Booking{
		BookingID:       ref,
		UserID:          uid,
		TheaterID:       theaterID,
		SlotID:          slotID,
		Date:            day,
		FullName:        req.FullName,
		NumberOfPeople:  req.NumberOfPeople,
		PhoneNumber:     req.PhoneNumber,
		WhatsappNumber:  req.WhatsappNumber,
		Email:           req.Email,
		AddDecorations:  req.AddDecorations,
		Nickname:        req.Nickname,
		PartnerNickname: req.PartnerNickname,
		Occasion:        req.Occasion,
		IsEggless:       req.IsEggless,
		CakeText:        req.CakeText,
		SelectedCakes:   req.SelectedCakes,
		AddOns:          req.AddOns,
		PaymentStatus:   status,
		PaymentAmount:   req.PaymentAmount,
		TotalAmount:     req.TotalAmount,
		OrderID:         req.OrderID,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to save unsaved booking: %w", err)
	}
	return b, nil
}

func (s *service) Get(ctx context.Context, id string) (*Booking, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: id", ErrInvalidInput)
	}
	return s.repo.FindByID(ctx, parsed)
}

func (s *service) List(ctx context.Context) ([]Booking, error) {
	return s.repo.List(ctx)
}
