package theaters

type SlotInput struct {
	ID        string `json:"id" binding:"omitempty,uuid"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type CreateTheaterRequest struct {
	BranchID                string      `json:"branch_id" binding:"omitempty,uuid"`
	Name                    string      `json:"name" binding:"required,min=2,max=120"`
	Location                string      `json:"location" binding:"required,max=255"`
	LocationLink            string      `json:"location_link" binding:"omitempty,url"`
	MaxCapacity             int         `json:"max_capacity" binding:"required,min=1"`
	GroupSize               int         `json:"group_size" binding:"required,min=1"`
	Amenities               []string    `json:"amenities"`
	Price                   float64     `json:"price" binding:"required,gt=0"`
	MinimumDecorationAmount float64     `json:"minimum_decoration_amount" binding:"gte=0"`
	ExtraPerPerson          float64     `json:"extra_per_person" binding:"gte=0"`
	Images                  []string    `json:"images"`
	Status                  string      `json:"status" binding:"omitempty,oneof=available 'coming soon' 'under maintenance'"`
	Slots                   []SlotInput `json:"slots" binding:"dive"`
}

type UpdateTheaterRequest struct {
	BranchID                *string      `json:"branch_id" binding:"omitempty,uuid"`
	Name                    *string      `json:"name" binding:"omitempty,min=2,max=120"`
	Location                *string      `json:"location" binding:"omitempty,max=255"`
	LocationLink            *string      `json:"location_link" binding:"omitempty,url"`
	MaxCapacity             *int         `json:"max_capacity" binding:"omitempty,min=1"`
	GroupSize               *int         `json:"group_size" binding:"omitempty,min=1"`
	Amenities               []string     `json:"amenities"`
	Price                   *float64     `json:"price" binding:"omitempty,gt=0"`
	MinimumDecorationAmount *float64     `json:"minimum_decoration_amount" binding:"omitempty,gte=0"`
	ExtraPerPerson          *float64     `json:"extra_per_person" binding:"omitempty,gte=0"`
	Images                  []string     `json:"images"`
	Status                  *string      `json:"status" binding:"omitempty,oneof=available 'coming soon' 'under maintenance'"`
	Slots                   *[]SlotInput `json:"slots" binding:"omitempty,dive"`
}

type DateQuery struct {
	Date string `form:"date" json:"date" binding:"required"`
}

type LocationAvailabilityRequest struct {
	Location string `json:"location" binding:"required"`
	Date     string `json:"date" binding:"required"`
}
