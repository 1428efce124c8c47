package users

type CreateUserRequest struct {
	UID         string `json:"uid"`
	Email       string `json:"email" binding:"omitempty,email"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,min=10,max=15"`
	FullName    string `json:"full_name" binding:"omitempty,max=120"`
	AuthType    string `json:"auth_type" binding:"required,oneof=firebase emailOtp"`
}

type UpdateUserRequest struct {
	UID         *string `json:"uid" binding:"omitempty,min=1"`
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,min=10,max=15"`
	FullName    *string `json:"full_name" binding:"omitempty,min=1,max=120"`
	Role        *string `json:"role" binding:"omitempty,oneof=user admin superadmin"`
	BranchID    *string `json:"branch_id" binding:"omitempty,uuid"`
	Active      *bool   `json:"active"`
}
