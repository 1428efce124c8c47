package expenses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"theaterbook/internal/branches"
	"theaterbook/internal/theaters"
	"theaterbook/internal/timewindow"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid expense input")

// BranchChecker and TheaterChecker confirm referenced rows exist.
type BranchChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*branches.Branch, error)
}

type TheaterChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*theaters.Theater, error)
}

type Service interface {
	Create(ctx context.Context, req CreateExpenseRequest) (*Expense, error)
	Get(ctx context.Context, id string) (*Expense, error)
	ListByBranch(ctx context.Context, branchID string, q RangeQuery) ([]Expense, error)
	Update(ctx context.Context, id string, req UpdateExpenseRequest) (*Expense, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo     Repository
	branches BranchChecker
	theaters TheaterChecker
	window   *timewindow.Window
}

func NewService(repo Repository, b BranchChecker, t TheaterChecker, window *timewindow.Window) Service {
	return &service{repo: repo, branches: b, theaters: t, window: window}
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrInvalidInput, field)
	}
	return id, nil
}

func (s *service) checkRefs(ctx context.Context, branchID, theaterID uuid.UUID) error {
	if _, err := s.branches.FindByID(ctx, branchID); err != nil {
		return err
	}
	if _, err := s.theaters.FindByID(ctx, theaterID); err != nil {
		return err
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateExpenseRequest) (*Expense, error) {
	if req.Amount < 0 {
		return nil, fmt.Errorf("%w: amount cannot be negative", ErrInvalidInput)
	}
	branchID, err := parseID("branch_id", req.BranchID)
	if err != nil {
		return nil, err
	}
	theaterID, err := parseID("theater_id", req.TheaterID)
	if err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, branchID, theaterID); err != nil {
		return nil, err
	}

	e := &Expense{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Amount:      req.Amount,
		Category:    strings.TrimSpace(req.Category),
		BranchID:    branchID,
		TheaterID:   theaterID,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return e, nil
}

func (s *service) Get(ctx context.Context, id string) (*Expense, error) {
	expenseID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, expenseID)
}

// bounds turns a day range into [from 00:00, to 24:00) in the business zone.
func (s *service) bounds(q RangeQuery) (time.Time, time.Time, error) {
	if q.From == "" || q.To == "" {
		return time.Time{}, time.Time{}, nil
	}
	from, err := s.window.ParseDate(q.From)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	to, err := s.window.ParseDate(q.To)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to is before from", ErrInvalidInput)
	}
	return from, to.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
}

func (s *service) ListByBranch(ctx context.Context, branchID string, q RangeQuery) ([]Expense, error) {
	id, err := parseID("branch_id", branchID)
	if err != nil {
		return nil, err
	}
	from, to, err := s.bounds(q)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByBranch(ctx, id, from, to)
}

func (s *service) Update(ctx context.Context, id string, req UpdateExpenseRequest) (*Expense, error) {
	expenseID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	e, err := s.repo.FindByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		e.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Amount != nil {
		if *req.Amount < 0 {
			return nil, fmt.Errorf("%w: amount cannot be negative", ErrInvalidInput)
		}
		e.Amount = *req.Amount
	}
	if req.Category != nil {
		e.Category = strings.TrimSpace(*req.Category)
	}
	if req.BranchID != nil {
		if e.BranchID, err = parseID("branch_id", *req.BranchID); err != nil {
			return nil, err
		}
	}
	if req.TheaterID != nil {
		if e.TheaterID, err = parseID("theater_id", *req.TheaterID); err != nil {
			return nil, err
		}
	}
	if req.BranchID != nil || req.TheaterID != nil {
		if err := s.checkRefs(ctx, e.BranchID, e.TheaterID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return e, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	expenseID, err := parseID("id", id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, expenseID)
}
