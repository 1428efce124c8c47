package coupons

import "time"

type CreateCouponRequest struct {
	Code           string     `json:"code" binding:"required,min=3,max=64"`
	Type           CouponType `json:"type" binding:"required,oneof=coupon offer"`
	Description    string     `json:"description" binding:"required"`
	DiscountAmount float64    `json:"discount_amount" binding:"required,gt=0"`
	DiscountType   string     `json:"discount_type" binding:"required,oneof=percentage fixed"`
	ValidFrom      time.Time  `json:"valid_from" binding:"required"`
	ValidUntil     time.Time  `json:"valid_until" binding:"required,gtfield=ValidFrom"`
	IsActive       bool       `json:"is_active"`
	TheaterID      string     `json:"theater_id" binding:"omitempty,uuid"`
	UsageLimit     *int       `json:"usage_limit" binding:"omitempty,min=0"`
	UserLimit      *int       `json:"user_limit" binding:"omitempty,min=1"`
	MinOrderValue  float64    `json:"min_order_value" binding:"min=0"`
}

type UpdateCouponRequest struct {
	Description    *string    `json:"description"`
	DiscountAmount *float64   `json:"discount_amount" binding:"omitempty,gt=0"`
	DiscountType   *string    `json:"discount_type" binding:"omitempty,oneof=percentage fixed"`
	ValidFrom      *time.Time `json:"valid_from"`
	ValidUntil     *time.Time `json:"valid_until"`
	IsActive       *bool      `json:"is_active"`
	TheaterID      *string    `json:"theater_id" binding:"omitempty,uuid"`
	UsageLimit     *int       `json:"usage_limit" binding:"omitempty,min=0"`
	UserLimit      *int       `json:"user_limit" binding:"omitempty,min=1"`
	MinOrderValue  *float64   `json:"min_order_value" binding:"omitempty,min=0"`
}

type ApplyCouponRequest struct {
	CouponCode string  `json:"coupon_code" binding:"required"`
	OrderValue float64 `json:"order_value" binding:"required,gt=0"`
	TheaterID  string  `json:"theater_id" binding:"omitempty,uuid"`
	UserID     string  `json:"user_id"`
	DeviceID   string  `json:"device_id"`
}
