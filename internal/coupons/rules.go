package coupons

import (
	"errors"
	"fmt"
	"time"

	"theaterbook/internal/timewindow"
)

var (
	ErrCouponRejected      = errors.New("coupon rejected")
	ErrCouponExpired       = fmt.Errorf("%w: coupon has expired", ErrCouponRejected)
	ErrCouponInactive      = fmt.Errorf("%w: coupon is no longer active", ErrCouponRejected)
	ErrCouponNotForTheater = fmt.Errorf("%w: coupon is not valid for this theater", ErrCouponRejected)
	ErrCouponAlreadyUsed   = fmt.Errorf("%w: coupon already used", ErrCouponRejected)
	ErrCouponExhausted     = fmt.Errorf("%w: usage limit reached", ErrCouponRejected)
	ErrMinOrderNotMet      = fmt.Errorf("%w: order value below minimum", ErrCouponRejected)
)

// Usage identifies one attempt to use a coupon.
type Usage struct {
	Code       string
	OrderValue float64
	TheaterID  string
	UserID     string
	DeviceID   string
}

// check applies the eligibility rules for u at now. Offers only look at
// expiry and order value. Coupons are bound to a theater, a user and a device.
func check(c *Coupon, u Usage, now time.Time, w *timewindow.Window) error {
	if c.Type == TypeOffer {
		if now.After(c.ValidUntil) {
			return ErrCouponExpired
		}
		if u.OrderValue < c.MinOrderValue {
			return fmt.Errorf("%w (minimum %.2f)", ErrMinOrderNotMet, c.MinOrderValue)
		}
		return nil
	}

	if c.TheaterID != nil && c.TheaterID.String() != u.TheaterID {
		return ErrCouponNotForTheater
	}
	if !c.IsActive {
		return ErrCouponInactive
	}
	if w.CivilDay(now).After(w.CivilDay(c.ValidUntil)) {
		return ErrCouponExpired
	}
	if contains(c.DevicesUsed, u.DeviceID) {
		return fmt.Errorf("%w on this device", ErrCouponAlreadyUsed)
	}
	if contains(c.Users, u.UserID) {
		return fmt.Errorf("%w by this user", ErrCouponAlreadyUsed)
	}
	if u.OrderValue < c.MinOrderValue {
		return fmt.Errorf("%w (minimum %.2f)", ErrMinOrderNotMet, c.MinOrderValue)
	}
	return nil
}

// redeem records u against c. Offers carry no usage state.
func redeem(c *Coupon, u Usage) error {
	if c.Type == TypeOffer {
		return nil
	}
	if c.UsageLimit <= 0 {
		return ErrCouponExhausted
	}
	if u.UserID != "" {
		c.Users = append(c.Users, u.UserID)
	}
	if u.DeviceID != "" {
		c.DevicesUsed = append(c.DevicesUsed, u.DeviceID)
	}
	c.UsageLimit--
	if c.UsageLimit == 0 {
		c.IsActive = false
	}
	return nil
}

// release undoes one redeem of u.
func release(c *Coupon, u Usage) {
	if c.Type == TypeOffer {
		return
	}
	c.Users = removeOnce(c.Users, u.UserID)
	c.DevicesUsed = removeOnce(c.DevicesUsed, u.DeviceID)
	if c.UsageLimit == 0 {
		c.IsActive = true
	}
	c.UsageLimit++
}
