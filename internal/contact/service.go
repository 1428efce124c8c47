package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"theaterbook/internal/timewindow"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid contact input")

type Service interface {
	// Create stores an enquiry. An existing contact with the same mobile
	// number is returned unchanged with created set to false.
	Create(ctx context.Context, req CreateContactRequest) (c *Contact, created bool, err error)
	Get(ctx context.Context, id string) (*Contact, error)
	List(ctx context.Context, q RangeQuery) ([]Contact, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	window *timewindow.Window
}

func NewService(repo Repository, window *timewindow.Window) Service {
	return &service{repo: repo, window: window}
}

func (s *service) Create(ctx context.Context, req CreateContactRequest) (*Contact, bool, error) {
	mobile := strings.TrimSpace(req.MobileNumber)
	if existing, err := s.repo.FindByMobile(ctx, mobile); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, ErrContactNotFound) {
		return nil, false, err
	}

	c := &Contact{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		MobileNumber: mobile,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Occasion:     req.Occasion,
		AddOns:       req.AddOns,
		Details:      req.Details,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, errDuplicateMobile) {
			// Lost a race with an identical enquiry.
			existing, ferr := s.repo.FindByMobile(ctx, mobile)
			return existing, false, ferr
		}
		return nil, false, fmt.Errorf("failed to create contact: %w", err)
	}
	return c, true, nil
}

func (s *service) Get(ctx context.Context, id string) (*Contact, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: id", ErrInvalidInput)
	}
	return s.repo.FindByID(ctx, parsed)
}

func (s *service) List(ctx context.Context, q RangeQuery) ([]Contact, error) {
	if q.From == "" || q.To == "" {
		return s.repo.List(ctx, time.Time{}, time.Time{})
	}
	from, err := s.window.ParseDate(q.From)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	to, err := s.window.ParseDate(q.To)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.repo.List(ctx, from, to.AddDate(0, 0, 1).Add(-time.Nanosecond))
}

func (s *service) Delete(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: id", ErrInvalidInput)
	}
	return s.repo.Delete(ctx, parsed)
}
