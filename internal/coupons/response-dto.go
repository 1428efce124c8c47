package coupons

type ApplyResult struct {
	Coupon             *Coupon `json:"coupon"`
	DiscountPercentage float64 `json:"discount_percentage"`
	DiscountAmount     float64 `json:"discount_amount"`
}

type OffersResponse struct {
	Descriptions []string `json:"descriptions"`
}
