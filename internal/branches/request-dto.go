package branches

type CreateBranchRequest struct {
	BranchName string `json:"branch_name" binding:"required,min=2,max=120"`
	Code       string `json:"code" binding:"omitempty,max=64"`
	Location   string `json:"location" binding:"required,max=255"`
	Number     string `json:"number" binding:"omitempty,max=20"`
}

type UpdateBranchRequest struct {
	BranchName *string `json:"branch_name" binding:"omitempty,min=2,max=120"`
	Code       *string `json:"code" binding:"omitempty,max=64"`
	Location   *string `json:"location" binding:"omitempty,max=255"`
	Number     *string `json:"number" binding:"omitempty,max=20"`
}
