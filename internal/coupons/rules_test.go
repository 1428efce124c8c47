package coupons

import (
	"testing"
	"time"

	"theaterbook/internal/timewindow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	w := timewindow.New(timewindow.DefaultZone, time.Hour)
	theater := uuid.New()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, w.Location())

	base := func() *Coupon {
		return &Coupon{
			Code:           "WELCOME",
			Type:           TypeCoupon,
			DiscountAmount: 10,
			DiscountType:   DiscountPercentage,
			ValidUntil:     time.Date(2026, 3, 10, 0, 0, 0, 0, w.Location()),
			IsActive:       true,
			TheaterID:      &theater,
			UsageLimit:     5,
			MinOrderValue:  1000,
		}
	}
	usage := Usage{Code: "WELCOME", OrderValue: 2000, TheaterID: theater.String(), UserID: "u1", DeviceID: "d1"}

	tests := []struct {
		name   string
		mutate func(c *Coupon, u *Usage)
		want   error
	}{
		{"valid on last civil day", func(c *Coupon, u *Usage) {}, nil},
		{"other theater", func(c *Coupon, u *Usage) { u.TheaterID = uuid.NewString() }, ErrCouponNotForTheater},
		{"inactive", func(c *Coupon, u *Usage) { c.IsActive = false }, ErrCouponInactive},
		{"expired yesterday", func(c *Coupon, u *Usage) { c.ValidUntil = c.ValidUntil.AddDate(0, 0, -1) }, ErrCouponExpired},
		{"device used", func(c *Coupon, u *Usage) { c.DevicesUsed = []string{"d1"} }, ErrCouponAlreadyUsed},
		{"user used", func(c *Coupon, u *Usage) { c.Users = []string{"u1"} }, ErrCouponAlreadyUsed},
		{"below minimum", func(c *Coupon, u *Usage) { u.OrderValue = 999 }, ErrMinOrderNotMet},
		{"offer ignores theater and users", func(c *Coupon, u *Usage) {
			c.Type = TypeOffer
			c.IsActive = false
			c.Users = []string{"u1"}
			c.ValidUntil = now.Add(time.Minute)
			u.TheaterID = ""
		}, nil},
		{"offer expires by instant", func(c *Coupon, u *Usage) {
			c.Type = TypeOffer
			c.ValidUntil = now.Add(-time.Minute)
		}, ErrCouponExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, u := base(), usage
			tt.mutate(c, &u)
			err := check(c, u, now, w)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrCouponRejected)
		})
	}
}

func TestDiscount(t *testing.T) {
	pct := &Coupon{DiscountType: DiscountPercentage, DiscountAmount: 15}
	assert.InDelta(t, 300, pct.Discount(2000), 0.001)
	assert.Equal(t, 15.0, pct.DiscountPercentage())

	fixed := &Coupon{DiscountType: DiscountFixed, DiscountAmount: 500}
	assert.Equal(t, 500.0, fixed.Discount(2000))
	assert.Equal(t, 300.0, fixed.Discount(300))
	assert.Zero(t, fixed.DiscountPercentage())
}

func TestRedeemAndRelease(t *testing.T) {
	c := &Coupon{Type: TypeCoupon, IsActive: true, UsageLimit: 1}
	u := Usage{UserID: "u1", DeviceID: "d1"}

	assert.NoError(t, redeem(c, u))
	assert.Equal(t, 0, c.UsageLimit)
	assert.False(t, c.IsActive)
	assert.Equal(t, []string{"u1"}, c.Users)
	assert.ErrorIs(t, redeem(c, u), ErrCouponExhausted)

	release(c, u)
	assert.Equal(t, 1, c.UsageLimit)
	assert.True(t, c.IsActive)
	assert.Empty(t, c.Users)
	assert.Empty(t, c.DevicesUsed)
}
