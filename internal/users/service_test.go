package users

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	rows []*User
}

func (m *memRepo) Create(_ context.Context, u *User) error {
	u.ID = uuid.New()
	m.rows = append(m.rows, u)
	return nil
}

func (m *memRepo) find(match func(*User) bool) (*User, error) {
	for _, u := range m.rows {
		if match(u) {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memRepo) FindByID(_ context.Context, id uuid.UUID) (*User, error) {
	return m.find(func(u *User) bool { return u.ID == id })
}

func (m *memRepo) FindByUID(_ context.Context, uid string) (*User, error) {
	return m.find(func(u *User) bool { return deref(u.UID) == uid })
}

func (m *memRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	return m.find(func(u *User) bool { return deref(u.Email) == email })
}

func (m *memRepo) FindByPhone(_ context.Context, phone string) (*User, error) {
	return m.find(func(u *User) bool { return deref(u.PhoneNumber) == phone })
}

func (m *memRepo) List(context.Context) ([]User, error) {
	out := make([]User, 0, len(m.rows))
	for _, u := range m.rows {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memRepo) Update(context.Context, *User) error { return nil }

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, u := range m.rows {
		if u.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return ErrUserNotFound
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+919876543210", NormalizePhone("9876543210"))
	assert.Equal(t, "+919876543210", NormalizePhone("+919876543210"))
	assert.Equal(t, "", NormalizePhone("  "))
}

func TestCreateOrUpdateValidatesAuthType(t *testing.T) {
	svc := NewService(&memRepo{}, Admins{})
	ctx := context.Background()

	_, _, err := svc.CreateOrUpdate(ctx, CreateUserRequest{AuthType: "firebase"})
	assert.ErrorIs(t, err, ErrPhoneRequired)

	_, _, err = svc.CreateOrUpdate(ctx, CreateUserRequest{AuthType: "emailOtp"})
	assert.ErrorIs(t, err, ErrEmailRequired)
}

func TestCreateOrUpdatePromotesConfiguredAdmin(t *testing.T) {
	svc := NewService(&memRepo{}, Admins{Phone: "9000000000"})

	user, created, err := svc.CreateOrUpdate(context.Background(), CreateUserRequest{
		AuthType:    "firebase",
		PhoneNumber: "9000000000",
		UID:         "fb-1",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, RoleSuperAdmin, user.Role)
	assert.Equal(t, "+919000000000", user.PhoneValue())
}

func TestCreateOrUpdateReturnsExisting(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, Admins{})
	ctx := context.Background()

	first, created, err := svc.CreateOrUpdate(ctx, CreateUserRequest{AuthType: "emailOtp", Email: "Guest@Mail.in"})
	require.NoError(t, err)
	require.True(t, created)

	again, created, err := svc.CreateOrUpdate(ctx, CreateUserRequest{AuthType: "emailOtp", Email: "guest@mail.in"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, repo.rows, 1)
}

func TestCreateOrUpdateBackfillsAdminUID(t *testing.T) {
	branch := uuid.New()
	repo := &memRepo{}
	phone := "+919111111111"
	repo.rows = append(repo.rows, &User{ID: uuid.New(), PhoneNumber: &phone, Role: RoleAdmin, BranchID: &branch, AuthType: AuthFirebase})
	svc := NewService(repo, Admins{})

	user, created, err := svc.CreateOrUpdate(context.Background(), CreateUserRequest{
		AuthType: "firebase", PhoneNumber: "9111111111", UID: "fb-admin",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "fb-admin", deref(user.UID))
}

func TestRegisterEndpointIgnoresRoleAndBranch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &memRepo{}
	r := gin.New()
	r.POST("/users", NewController(NewService(repo, Admins{})).Create)

	body := fmt.Sprintf(`{"auth_type":"emailOtp","email":"stranger@example.com","role":"superadmin","branch_id":%q}`, uuid.NewString())
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.rows, 1)
	assert.Equal(t, RoleUser, repo.rows[0].Role)
	assert.Nil(t, repo.rows[0].BranchID)
}

func TestUpdateRoleChangesNeedSuperAdmin(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, Admins{})
	ctx := context.Background()
	branch := uuid.NewString()

	guest, _, err := svc.CreateOrUpdate(ctx, CreateUserRequest{AuthType: "emailOtp", Email: "guest@mail.in"})
	require.NoError(t, err)
	boss := &User{ID: uuid.New(), Role: RoleSuperAdmin, AuthType: AuthEmailOTP, Active: true}
	repo.rows = append(repo.rows, boss)

	_, err = svc.Update(ctx, guest.ID.String(), UpdateUserRequest{Role: strPtr("superadmin")}, RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Update(ctx, boss.ID.String(), UpdateUserRequest{Active: boolPtr(false)}, RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, RoleUser, guest.Role)

	name := "Guest Two"
	updated, err := svc.Update(ctx, guest.ID.String(), UpdateUserRequest{FullName: &name, Role: strPtr("user")}, RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "Guest Two", updated.FullName)

	_, err = svc.Update(ctx, guest.ID.String(), UpdateUserRequest{Role: strPtr("admin")}, RoleSuperAdmin)
	assert.ErrorIs(t, err, ErrBranchRequired)

	updated, err = svc.Update(ctx, guest.ID.String(), UpdateUserRequest{Role: strPtr("admin"), BranchID: &branch}, RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, updated.Role)
}

func boolPtr(b bool) *bool { return &b }
