package coupons

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"theaterbook/internal/shared/constants"
	"theaterbook/internal/timewindow"
	"theaterbook/pkg/cache"
	"theaterbook/pkg/logger"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

type Service interface {
	Create(ctx context.Context, req CreateCouponRequest) (*Coupon, error)
	Get(ctx context.Context, id string) (*Coupon, error)
	List(ctx context.Context) ([]Coupon, error)
	Update(ctx context.Context, id string, req UpdateCouponRequest) (*Coupon, error)
	Delete(ctx context.Context, id string) error
	OfferDescriptions(ctx context.Context) ([]string, error)

	// Apply previews the discount of a code without recording its use.
	Apply(ctx context.Context, u Usage) (*ApplyResult, error)
	// Redeem checks the code and records its use atomically.
	Redeem(ctx context.Context, u Usage) (*ApplyResult, error)
	// Release undoes a Redeem of the same usage.
	Release(ctx context.Context, u Usage) error
}

type service struct {
	repo   Repository
	cache  cache.Service
	window *timewindow.Window
	now    func() time.Time
	log    *logger.Logger
}

func NewService(repo Repository, c cache.Service, window *timewindow.Window) Service {
	return &service{repo: repo, cache: c, window: window, now: time.Now, log: logger.GetDefault()}
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: coupon id %q", ErrInvalidInput, id)
	}
	return parsed, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *service) invalidateOffers(ctx context.Context) {
	if err := s.cache.Delete(ctx, constants.CACHE_KEY_OFFERS); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate offers cache", slog.Any("error", err))
	}
}

func (s *service) Create(ctx context.Context, req CreateCouponRequest) (*Coupon, error) {
	c := &Coupon{
		Code:           normalizeCode(req.Code),
		Type:           req.Type,
		Description:    strings.TrimSpace(req.Description),
		DiscountAmount: req.DiscountAmount,
		DiscountType:   DiscountType(req.DiscountType),
		ValidFrom:      req.ValidFrom,
		ValidUntil:     req.ValidUntil,
		IsActive:       req.IsActive,
		Users:          []string{},
		DevicesUsed:    []string{},
		UsageLimit:     20,
		UserLimit:      1,
		MinOrderValue:  req.MinOrderValue,
	}
	if req.UsageLimit != nil {
		c.UsageLimit = *req.UsageLimit
	}
	if req.UserLimit != nil {
		c.UserLimit = *req.UserLimit
	}
	if c.DiscountType == DiscountPercentage && c.DiscountAmount > 100 {
		return nil, fmt.Errorf("%w: percentage discount above 100", ErrInvalidInput)
	}
	if req.TheaterID != "" {
		id, err := uuid.Parse(req.TheaterID)
		if err != nil {
			return nil, fmt.Errorf("%w: theater id %q", ErrInvalidInput, req.TheaterID)
		}
		c.TheaterID = &id
	}

	exists, err := s.repo.ExistsByCode(ctx, c.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to check coupon code: %w", err)
	}
	if exists {
		return nil, ErrCouponExists
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.invalidateOffers(ctx)
	return c, nil
}

func (s *service) Get(ctx context.Context, id string) (*Coupon, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, parsed)
}

func (s *service) List(ctx context.Context) ([]Coupon, error) {
	return s.repo.List(ctx, "")
}

func (s *service) Update(ctx context.Context, id string, req UpdateCouponRequest) (*Coupon, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.FindByID(ctx, parsed)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		c.Description = strings.TrimSpace(*req.Description)
	}
	if req.DiscountAmount != nil {
		c.DiscountAmount = *req.DiscountAmount
	}
	if req.DiscountType != nil {
		c.DiscountType = DiscountType(*req.DiscountType)
	}
	if req.ValidFrom != nil {
		c.ValidFrom = *req.ValidFrom
	}
	if req.ValidUntil != nil {
		c.ValidUntil = *req.ValidUntil
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if req.UsageLimit != nil {
		c.UsageLimit = *req.UsageLimit
	}
	if req.UserLimit != nil {
		c.UserLimit = *req.UserLimit
	}
	if req.MinOrderValue != nil {
		c.MinOrderValue = *req.MinOrderValue
	}
	if req.TheaterID != nil {
		if *req.TheaterID == "" {
			c.TheaterID = nil
		} else {
			tid, err := uuid.Parse(*req.TheaterID)
			if err != nil {
				return nil, fmt.Errorf("%w: theater id %q", ErrInvalidInput, *req.TheaterID)
			}
			c.TheaterID = &tid
		}
	}
	if !c.ValidUntil.After(c.ValidFrom) {
		return nil, fmt.Errorf("%w: valid_until must be after valid_from", ErrInvalidInput)
	}
	if c.DiscountType == DiscountPercentage && c.DiscountAmount > 100 {
		return nil, fmt.Errorf("%w: percentage discount above 100", ErrInvalidInput)
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}
	s.invalidateOffers(ctx)
	return c, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	parsed, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, parsed); err != nil {
		return err
	}
	s.invalidateOffers(ctx)
	return nil
}

func (s *service) OfferDescriptions(ctx context.Context) ([]string, error) {
	var descriptions []string
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_OFFERS, constants.TTL_OFFERS, func() (interface{}, error) {
		offers, err := s.repo.List(ctx, TypeOffer)
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(offers))
		for _, o := range offers {
			out = append(out, o.Description)
		}
		return out, nil
	}, &descriptions)
	if descriptions == nil {
		descriptions = []string{}
	}
	return descriptions, err
}

func result(c *Coupon, orderValue float64) *ApplyResult {
	return &ApplyResult{
		Coupon:             c,
		DiscountPercentage: c.DiscountPercentage(),
		DiscountAmount:     c.Discount(orderValue),
	}
}

func (s *service) Apply(ctx context.Context, u Usage) (*ApplyResult, error) {
	c, err := s.repo.FindByCode(ctx, normalizeCode(u.Code))
	if err != nil {
		return nil, err
	}
	if err := check(c, u, s.now(), s.window); err != nil {
		return nil, err
	}
	return result(c, u.OrderValue), nil
}

func (s *service) Redeem(ctx context.Context, u Usage) (*ApplyResult, error) {
	now := s.now()
	c, err := s.repo.Mutate(ctx, normalizeCode(u.Code), func(c *Coupon) error {
		if err := check(c, u, now, s.window); err != nil {
			return err
		}
		return redeem(c, u)
	})
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "coupon redeemed",
		slog.String("code", c.Code),
		slog.String("user_id", u.UserID),
		slog.Int("usage_left", c.UsageLimit),
	)
	return result(c, u.OrderValue), nil
}

func (s *service) Release(ctx context.Context, u Usage) error {
	_, err := s.repo.Mutate(ctx, normalizeCode(u.Code), func(c *Coupon) error {
		release(c, u)
		return nil
	})
	return err
}
