package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidUserID   = errors.New("invalid user id")
	ErrPhoneRequired   = errors.New("phone number is required for firebase authentication")
	ErrEmailRequired   = errors.New("email is required for email otp authentication")
	ErrBranchRequired  = errors.New("branch is required for admin creation")
	ErrInvalidAuthType = errors.New("auth type must be firebase or emailOtp")
	ErrInvalidRole     = errors.New("role must be user, admin or superadmin")
	ErrForbidden       = errors.New("only a superadmin can change roles or edit a superadmin")
)

type Service interface {
	// CreateOrUpdate registers an account or refreshes an existing one. New
	// accounts are plain users unless they match the configured superadmin.
	// The boolean result is true when a new account was created.
	CreateOrUpdate(ctx context.Context, req CreateUserRequest) (*User, bool, error)
	EnsureEmailUser(ctx context.Context, email string) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
	GetByUID(ctx context.Context, uid string) (*User, error)
	List(ctx context.Context) ([]User, error)
	// Update applies an admin edit. actor is the caller's role. Role changes
	// and edits of a superadmin need a superadmin actor.
	Update(ctx context.Context, id string, req UpdateUserRequest, actor Role) (*User, error)
	Delete(ctx context.Context, id string) error
}

// Admins lists the identities promoted to superadmin.
type Admins struct {
	Email string
	Phone string
}

type service struct {
	repo   Repository
	admins Admins
}

func NewService(repo Repository, admins Admins) Service {
	admins.Phone = NormalizePhone(admins.Phone)
	return &service{repo: repo, admins: admins}
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrInvalidUserID, id)
	}
	return parsed, nil
}

func (s *service) isSuperAdmin(email, phone string) bool {
	return (s.admins.Email != "" && strings.EqualFold(email, s.admins.Email)) ||
		(s.admins.Phone != "" && phone == s.admins.Phone)
}

func (s *service) CreateOrUpdate(ctx context.Context, req CreateUserRequest) (*User, bool, error) {
	authType := AuthType(req.AuthType)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := NormalizePhone(req.PhoneNumber)

	switch authType {
	case AuthFirebase:
		if phone == "" {
			return nil, false, ErrPhoneRequired
		}
	case AuthEmailOTP:
		if email == "" {
			return nil, false, ErrEmailRequired
		}
	default:
		return nil, false, ErrInvalidAuthType
	}

	var existing *User
	var err error
	if authType == AuthFirebase {
		existing, err = s.repo.FindByPhone(ctx, phone)
	} else {
		existing, err = s.repo.FindByEmail(ctx, email)
	}
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}

	if existing != nil {
		if existing.FullName == "" && req.FullName != "" {
			existing.FullName = req.FullName
		}
		if phone != "" {
			existing.PhoneNumber = &phone
		}
		if existing.Role == RoleAdmin && existing.UID == nil && req.UID != "" {
			existing.UID = strPtr(req.UID)
		}
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("failed to update user: %w", err)
		}
		return existing, false, nil
	}

	role := RoleUser
	if s.isSuperAdmin(email, phone) {
		role = RoleSuperAdmin
	}
	user := &User{
		UID:         strPtr(req.UID),
		Email:       strPtr(email),
		PhoneNumber: strPtr(phone),
		FullName:    req.FullName,
		Role:        role,
		AuthType:    authType,
		Active:      true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}
	return user, true, nil
}

// EnsureEmailUser returns the account for email, creating a plain user on
// first login.
func (s *service) EnsureEmailUser(ctx context.Context, email string) (*User, error) {
	user, _, err := s.CreateOrUpdate(ctx, CreateUserRequest{Email: email, AuthType: string(AuthEmailOTP)})
	return user, err
}

func (s *service) Get(ctx context.Context, id string) (*User, error) {
	userID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *service) GetByUID(ctx context.Context, uid string) (*User, error) {
	return s.repo.FindByUID(ctx, uid)
}

func (s *service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id string, req UpdateUserRequest, actor Role) (*User, error) {
	userID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if actor != RoleSuperAdmin {
		if user.Role == RoleSuperAdmin || (req.Role != nil && Role(*req.Role) != user.Role) {
			return nil, ErrForbidden
		}
	}

	if req.UID != nil {
		user.UID = strPtr(*req.UID)
	}
	if req.Email != nil {
		user.Email = strPtr(strings.ToLower(strings.TrimSpace(*req.Email)))
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = strPtr(NormalizePhone(*req.PhoneNumber))
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		if !IsValidRole(*req.Role) {
			return nil, ErrInvalidRole
		}
		user.Role = Role(*req.Role)
	}
	if req.BranchID != nil {
		branchID, err := uuid.Parse(*req.BranchID)
		if err != nil {
			return nil, fmt.Errorf("%w: branch id", ErrBranchRequired)
		}
		user.BranchID = &branchID
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if user.Role == RoleAdmin && user.BranchID == nil {
		return nil, ErrBranchRequired
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	userID, err := parseID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID)
}
