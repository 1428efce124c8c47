package bookings

import (
	"context"
	"fmt"
	"time"

	"theaterbook/internal/payments"
	"theaterbook/internal/theaters"
	"theaterbook/internal/timewindow"

	"github.com/google/uuid"
)

// TheaterReader loads a theater with all of its slots.
type TheaterReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*theaters.Theater, error)
}

// Caller is the authenticated principal of a request.
type Caller struct {
	UserID string
	Admin  bool
}

// Service covers booking reads, admin updates and payment lookups.
type Service interface {
	Get(ctx context.Context, id string, caller Caller) (*Booking, error)
	List(ctx context.Context, query ListQuery) (*BookingListResponse, error)
	ListByUser(ctx context.Context, userID string, caller Caller, query ListQuery) (*BookingListResponse, error)
	ListByTheater(ctx context.Context, theaterID string) ([]BookingWithSlot, error)
	ListByBranch(ctx context.Context, branchID string, query ListQuery) (*BookingListResponse, error)
	MarkRead(ctx context.Context, id string) error

	ListPayments(ctx context.Context, query PaymentListQuery) ([]PaymentWithBooking, error)
	GetPayment(ctx context.Context, id string) (*PaymentWithBooking, error)
}

type service struct {
	repo     Repository
	theaters TheaterReader
	gateway  payments.Gateway
	window   *timewindow.Window
}

func NewService(repo Repository, theaterReader TheaterReader, gateway payments.Gateway, window *timewindow.Window) Service {
	return &service{repo: repo, theaters: theaterReader, gateway: gateway, window: window}
}

func parseID(id, what string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s id %q", ErrInvalidInput, what, id)
	}
	return parsed, nil
}

// resolve parses the optional from/to date filters in the business zone.
func (s *service) resolve(query ListQuery) (ListQuery, error) {
	if query.From != "" {
		from, err := s.window.ParseDate(query.From)
		if err != nil {
			return query, err
		}
		query.from = from
	}
	if query.To != "" {
		to, err := s.window.ParseDate(query.To)
		if err != nil {
			return query, err
		}
		query.to = to
	}
	if query.PaymentStatus != "" && !query.PaymentStatus.IsValid() {
		return query, fmt.Errorf("%w: payment_status %q", ErrInvalidInput, query.PaymentStatus)
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 || query.Limit > 100 {
		query.Limit = 20
	}
	return query, nil
}

func listResponse(list []Booking, total int64, query ListQuery) *BookingListResponse {
	if list == nil {
		list = []Booking{}
	}
	return &BookingListResponse{Bookings: list, Total: total, Page: query.Page, Limit: query.Limit}
}

func (s *service) Get(ctx context.Context, id string, caller Caller) (*Booking, error) {
	parsed, err := parseID(id, "booking")
	if err != nil {
		return nil, err
	}
	b, err := s.repo.FindByID(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if !caller.Admin && b.UserID.String() != caller.UserID {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *service) List(ctx context.Context, query ListQuery) (*BookingListResponse, error) {
	query, err := s.resolve(query)
	if err != nil {
		return nil, err
	}
	list, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return listResponse(list, total, query), nil
}

func (s *service) ListByUser(ctx context.Context, userID string, caller Caller, query ListQuery) (*BookingListResponse, error) {
	parsed, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}
	if !caller.Admin && caller.UserID != userID {
		return nil, ErrForbidden
	}
	query, err = s.resolve(query)
	if err != nil {
		return nil, err
	}
	list, total, err := s.repo.ListByUser(ctx, parsed, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list user bookings: %w", err)
	}
	return listResponse(list, total, query), nil
}

func (s *service) ListByTheater(ctx context.Context, theaterID string) ([]BookingWithSlot, error) {
	parsed, err := parseID(theaterID, "theater")
	if err != nil {
		return nil, err
	}
	theater, err := s.theaters.FindByID(ctx, parsed)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListByTheater(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to list theater bookings: %w", err)
	}

	out := make([]BookingWithSlot, 0, len(list))
	for _, b := range list {
		item := BookingWithSlot{Booking: b}
		if slot, ok := theater.FindSlot(b.SlotID); ok {
			item.Slot = &SlotSummary{ID: slot.ID, StartTime: slot.StartTime, EndTime: slot.EndTime}
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *service) ListByBranch(ctx context.Context, branchID string, query ListQuery) (*BookingListResponse, error) {
	parsed, err := parseID(branchID, "branch")
	if err != nil {
		return nil, err
	}
	query, err = s.resolve(query)
	if err != nil {
		return nil, err
	}
	list, total, err := s.repo.ListByBranch(ctx, parsed, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list branch bookings: %w", err)
	}
	return listResponse(list, total, query), nil
}

func (s *service) MarkRead(ctx context.Context, id string) error {
	parsed, err := parseID(id, "booking")
	if err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, parsed)
}

func (s *service) ListPayments(ctx context.Context, query PaymentListQuery) ([]PaymentWithBooking, error) {
	opts := payments.ListOptions{Count: query.Count, Skip: query.Skip}
	if query.From > 0 {
		opts.From = time.Unix(query.From, 0)
	}
	if query.To > 0 {
		opts.To = time.Unix(query.To, 0)
	}
	list, err := s.gateway.ListPayments(ctx, opts)
	if err != nil {
		return nil, err
	}

	orderIDs := make([]string, 0, len(list))
	for _, p := range list {
		if p.OrderID != "" {
			orderIDs = append(orderIDs, p.OrderID)
		}
	}
	bookings, err := s.repo.FindByOrderIDs(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for payments: %w", err)
	}
	byOrder := make(map[string]*Booking, len(bookings))
	for i := range bookings {
		byOrder[bookings[i].OrderID] = &bookings[i]
	}

	out := make([]PaymentWithBooking, 0, len(list))
	for _, p := range list {
		out = append(out, PaymentWithBooking{Payment: p, BookingDetails: byOrder[p.OrderID]})
	}
	return out, nil
}

func (s *service) GetPayment(ctx context.Context, id string) (*PaymentWithBooking, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: payment id is required", ErrInvalidInput)
	}
	p, err := s.gateway.FetchPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &PaymentWithBooking{Payment: *p}
	if p.OrderID != "" {
		list, err := s.repo.FindByOrderIDs(ctx, []string{p.OrderID})
		if err != nil {
			return nil, fmt.Errorf("failed to load booking for payment: %w", err)
		}
		if len(list) > 0 {
			out.BookingDetails = &list[0]
		}
	}
	return out, nil
}
