package expenses

type CreateExpenseRequest struct {
	Name        string  `json:"name" binding:"required,max=120"`
	Description string  `json:"description" binding:"omitempty,max=1000"`
	Amount      float64 `json:"amount" binding:"min=0"`
	Category    string  `json:"category" binding:"required,max=64"`
	BranchID    string  `json:"branch_id" binding:"required,uuid"`
	TheaterID   string  `json:"theater_id" binding:"required,uuid"`
}

type UpdateExpenseRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=120"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
	Amount      *float64 `json:"amount" binding:"omitempty,min=0"`
	Category    *string  `json:"category" binding:"omitempty,min=1,max=64"`
	BranchID    *string  `json:"branch_id" binding:"omitempty,uuid"`
	TheaterID   *string  `json:"theater_id" binding:"omitempty,uuid"`
}

// RangeQuery takes YYYY-MM-DD or RFC3339 bounds. Both must be set to filter.
type RangeQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}
