package bookings

type CreateOrderRequest struct {
	TheaterID string  `json:"theater_id" binding:"required,uuid"`
	SlotID    string  `json:"slot_id" binding:"required,uuid"`
	Date      string  `json:"date" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Receipt   string  `json:"receipt"`
}

type CreateBookingRequest struct {
	TheaterID string `json:"theater_id" binding:"required,uuid"`
	SlotID    string `json:"slot_id" binding:"required,uuid"`
	Date      string `json:"date" binding:"required"`

	FullName        string                  `json:"full_name" binding:"required"`
	NumberOfPeople  int                     `json:"number_of_people" binding:"required,min=1"`
	PhoneNumber     string                  `json:"phone_number" binding:"required"`
	WhatsappNumber  string                  `json:"whatsapp_number"`
	Email           string                  `json:"email" binding:"omitempty,email"`
	AddDecorations  bool                    `json:"add_decorations"`
	Nickname        string                  `json:"nickname"`
	PartnerNickname string                  `json:"partner_nickname"`
	Occasion        map[string]interface{}  `json:"occasion"`
	IsEggless       bool                    `json:"is_eggless"`
	CakeText        string                  `json:"cake_text"`
	SelectedCakes   map[string]SelectedCake `json:"selected_cakes" binding:"omitempty,dive"`
	AddOns          AddOns                  `json:"add_ons"`

	PaymentAmount float64 `json:"payment_amount" binding:"min=0"`
	TotalAmount   float64 `json:"total_amount" binding:"required,gt=0,gtefield=PaymentAmount"`
	CouponCode    string  `json:"coupon_code"`
	DeviceID      string  `json:"device_id"`

	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// PaymentListQuery takes unix seconds like the gateway does.
type PaymentListQuery struct {
	From  int64 `form:"from"`
	To    int64 `form:"to"`
	Count int   `form:"count,default=50" binding:"min=1,max=100"`
	Skip  int   `form:"skip" binding:"min=0"`
}
