package users

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

// RoleContextKey is the gin context key holding the authenticated caller's role.
const RoleContextKey = "user_role"

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

type AuthType string

const (
	AuthFirebase AuthType = "firebase"
	AuthEmailOTP AuthType = "emailOtp"
)

// User columns that identify an account are nullable so that the unique
// indexes only apply to accounts that actually carry the value.
type User struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	UID         *string    `json:"uid,omitempty" gorm:"uniqueIndex"`
	Email       *string    `json:"email,omitempty" gorm:"uniqueIndex"`
	PhoneNumber *string    `json:"phone_number,omitempty" gorm:"uniqueIndex"`
	FullName    string     `json:"full_name"`
	Role        Role       `json:"role" gorm:"type:varchar(16);not null;default:'user'"`
	AuthType    AuthType   `json:"auth_type" gorm:"type:varchar(16);not null"`
	BranchID    *uuid.UUID `json:"branch_id,omitempty" gorm:"type:uuid;index"`
	Active      bool       `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// NormalizePhone prefixes Indian numbers with +91 when no country code is set.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" || strings.HasPrefix(phone, "+91") {
		return phone
	}
	return "+91" + strings.TrimPrefix(phone, "+")
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (u *User) EmailValue() string { return deref(u.Email) }

func (u *User) PhoneValue() string { return deref(u.PhoneNumber) }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin || u.Role == RoleSuperAdmin }
