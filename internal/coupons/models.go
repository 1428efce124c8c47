package coupons

import (
	"time"

	"github.com/google/uuid"
)

type CouponType string

const (
	TypeCoupon CouponType = "coupon"
	TypeOffer  CouponType = "offer"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is either a theater bound single use coupon or a public offer.
type Coupon struct {
	ID             uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code           string       `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Type           CouponType   `gorm:"type:varchar(16);not null" json:"type"`
	Description    string       `gorm:"not null" json:"description"`
	DiscountAmount float64      `gorm:"not null" json:"discount_amount"`
	DiscountType   DiscountType `gorm:"type:varchar(16);not null" json:"discount_type"`
	ValidFrom      time.Time    `gorm:"not null" json:"valid_from"`
	ValidUntil     time.Time    `gorm:"not null" json:"valid_until"`
	IsActive       bool         `gorm:"not null;default:false" json:"is_active"`
	TheaterID      *uuid.UUID   `gorm:"type:uuid;index" json:"theater_id,omitempty"`
	Users          []string     `gorm:"type:jsonb;serializer:json" json:"users"`
	DevicesUsed    []string     `gorm:"type:jsonb;serializer:json" json:"devices_used"`
	UsageLimit     int          `gorm:"not null;default:20" json:"usage_limit"`
	UserLimit      int          `gorm:"not null;default:1" json:"user_limit"`
	MinOrderValue  float64      `gorm:"not null;default:0" json:"min_order_value"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (Coupon) TableName() string {
	return "coupons"
}

// Discount returns the amount taken off orderValue, never more than the order.
func (c *Coupon) Discount(orderValue float64) float64 {
	var d float64
	switch c.DiscountType {
	case DiscountPercentage:
		d = orderValue * c.DiscountAmount / 100
	case DiscountFixed:
		d = c.DiscountAmount
	}
	if d > orderValue {
		return orderValue
	}
	return d
}

func (c *Coupon) DiscountPercentage() float64 {
	if c.DiscountType == DiscountPercentage {
		return c.DiscountAmount
	}
	return 0
}

func contains(list []string, v string) bool {
	if v == "" {
		return false
	}
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func removeOnce(list []string, v string) []string {
	for i, s := range list {
		if s == v {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
