package unsaved

import "theaterbook/internal/bookings"

type SaveRequest struct {
	TheaterID string `json:"theater_id" binding:"required,uuid"`
	SlotID    string `json:"slot_id" binding:"required,uuid"`
	Date      string `json:"date" binding:"required"`

	FullName        string                           `json:"full_name"`
	NumberOfPeople  int                              `json:"number_of_people" binding:"min=0"`
	PhoneNumber     string                           `json:"phone_number"`
	WhatsappNumber  string                           `json:"whatsapp_number"`
	Email           string                           `json:"email" binding:"omitempty,email"`
	AddDecorations  bool                             `json:"add_decorations"`
	Nickname        string                           `json:"nickname"`
	PartnerNickname string                           `json:"partner_nickname"`
	Occasion        map[string]interface{}           `json:"occasion"`
	IsEggless       bool                             `json:"is_eggless"`
	CakeText        string                           `json:"cake_text"`
	SelectedCakes   map[string]bookings.SelectedCake `json:"selected_cakes" binding:"omitempty,dive"`
	AddOns          bookings.AddOns                  `json:"add_ons"`

	PaymentStatus string  `json:"payment_status" binding:"omitempty,oneof=pending cancelled failed"`
	PaymentAmount float64 `json:"payment_amount" binding:"min=0"`
	TotalAmount   float64 `json:"total_amount" binding:"min=0"`
	OrderID       string  `json:"order_id"`
}
