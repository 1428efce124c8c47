package branches

import (
	"time"

	"github.com/google/uuid"
)

type Branch struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BranchName string    `gorm:"uniqueIndex;not null" json:"branch_name"`
	Code       string    `gorm:"uniqueIndex;not null" json:"code"`
	Location   string    `gorm:"not null" json:"location"`
	Number     string    `json:"number,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Branch) TableName() string {
	return "branches"
}
