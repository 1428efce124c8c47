package contact

type CreateContactRequest struct {
	FirstName    string   `json:"first_name" binding:"required,max=80"`
	LastName     string   `json:"last_name" binding:"required,max=80"`
	MobileNumber string   `json:"mobile_number" binding:"required,min=10,max=15"`
	Email        string   `json:"email" binding:"omitempty,email"`
	Occasion     string   `json:"occasion" binding:"omitempty,max=80"`
	AddOns       []string `json:"add_ons"`
	Details      string   `json:"details" binding:"omitempty,max=2000"`
}

type RangeQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}
