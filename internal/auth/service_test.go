package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"theaterbook/internal/shared/config"
	"theaterbook/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	rows map[string]OTP
}

func (m *memRepo) Upsert(_ context.Context, otp *OTP) error {
	m.rows[otp.Email] = *otp
	return nil
}

func (m *memRepo) FindByEmail(_ context.Context, email string) (*OTP, error) {
	o, ok := m.rows[email]
	if !ok {
		return nil, ErrOTPNotFound
	}
	return &o, nil
}

func (m *memRepo) DeleteByEmail(_ context.Context, email string) error {
	delete(m.rows, email)
	return nil
}

type captureSender struct {
	codes map[string]string
}

func (c *captureSender) SendOTP(_ context.Context, email, code string, _ time.Duration) error {
	c.codes[email] = code
	return nil
}

type directory struct {
	byID map[string]*users.User
}

func (d *directory) EnsureEmailUser(_ context.Context, email string) (*users.User, error) {
	for _, u := range d.byID {
		if u.EmailValue() == email {
			return u, nil
		}
	}
	u := &users.User{ID: uuid.New(), Email: &email, Role: users.RoleUser, AuthType: users.AuthEmailOTP, Active: true}
	d.byID[u.ID.String()] = u
	return u, nil
}

func (d *directory) GetByUID(_ context.Context, uid string) (*users.User, error) {
	for _, u := range d.byID {
		if u.UID != nil && *u.UID == uid {
			return u, nil
		}
	}
	return nil, users.ErrUserNotFound
}

func (d *directory) Get(_ context.Context, id string) (*users.User, error) {
	if u, ok := d.byID[id]; ok {
		return u, nil
	}
	return nil, users.ErrUserNotFound
}

type verifierFunc func(ctx context.Context, token string) (string, error)

func (f verifierFunc) VerifyIDToken(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}

var testJWT = config.JWTConfig{Secret: "test-secret", JWTExpiresIn: 15 * time.Minute, RefreshExpiresIn: 24 * time.Hour}

func newTestService(v TokenVerifier) (*service, *memRepo, *captureSender, *directory) {
	repo := &memRepo{rows: map[string]OTP{}}
	sender := &captureSender{codes: map[string]string{}}
	dir := &directory{byID: map[string]*users.User{}}
	svc := NewService(repo, dir, sender, v, testJWT).(*service)
	return svc, repo, sender, dir
}

func TestOTPLoginIssuesTokensAndConsumesCode(t *testing.T) {
	svc, repo, sender, _ := newTestService(nil)
	ctx := context.Background()

	require.NoError(t, svc.SendOTP(ctx, " Asha@Example.com "))
	code := sender.codes["asha@example.com"]
	require.Len(t, code, OTPLength)
	assert.NotEqual(t, code, repo.rows["asha@example.com"].CodeHash)

	resp, err := svc.VerifyOTP(ctx, "asha@example.com", code)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", resp.User.EmailValue())
	assert.Equal(t, int64(900), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, resp.User.ID.String(), claims.UserID)
	assert.Equal(t, "theaterbook", claims.Issuer)

	_, err = svc.VerifyOTP(ctx, "asha@example.com", code)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestOTPWrongAndExpiredCodes(t *testing.T) {
	svc, repo, sender, _ := newTestService(nil)
	ctx := context.Background()
	require.NoError(t, svc.SendOTP(ctx, "a@b.co"))
	code := sender.codes["a@b.co"]

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	_, err := svc.VerifyOTP(ctx, "a@b.co", wrong)
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Contains(t, repo.rows, "a@b.co")

	svc.now = func() time.Time { return time.Now().Add(OTPTTL + time.Second) }
	_, err = svc.VerifyOTP(ctx, "a@b.co", code)
	assert.ErrorIs(t, err, ErrCodeExpired)
	assert.NotContains(t, repo.rows, "a@b.co")
}

func TestResendReplacesPendingCode(t *testing.T) {
	svc, repo, sender, _ := newTestService(nil)
	ctx := context.Background()
	require.NoError(t, svc.SendOTP(ctx, "a@b.co"))
	first := repo.rows["a@b.co"].CodeHash
	require.NoError(t, svc.SendOTP(ctx, "a@b.co"))
	assert.Len(t, repo.rows, 1)
	assert.NotEqual(t, first, repo.rows["a@b.co"].CodeHash)

	_, err := svc.VerifyOTP(ctx, "a@b.co", sender.codes["a@b.co"])
	assert.NoError(t, err)
}

func TestFirebaseLogin(t *testing.T) {
	svc, _, _, _ := newTestService(nil)
	_, err := svc.FirebaseLogin(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrFirebaseDisabled)

	svc, _, _, dir := newTestService(verifierFunc(func(_ context.Context, token string) (string, error) {
		if token != "good" {
			return "", errors.New("signature invalid")
		}
		return "uid-1", nil
	}))
	uid := "uid-1"
	u := &users.User{ID: uuid.New(), UID: &uid, Role: users.RoleAdmin, Active: true}
	dir.byID[u.ID.String()] = u

	resp, err := svc.FirebaseLogin(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, u.ID, resp.User.ID)

	_, err = svc.FirebaseLogin(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)

	u.Active = false
	_, err = svc.FirebaseLogin(context.Background(), "good")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestRefreshRequiresRefreshToken(t *testing.T) {
	svc, _, sender, dir := newTestService(nil)
	ctx := context.Background()
	require.NoError(t, svc.SendOTP(ctx, "a@b.co"))
	resp, err := svc.VerifyOTP(ctx, "a@b.co", sender.codes["a@b.co"])
	require.NoError(t, err)

	_, err = svc.RefreshToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	dir.byID[resp.User.ID.String()].Role = users.RoleAdmin
	pair, err := svc.RefreshToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	_, err = svc.RefreshToken(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyEndpointValidatesBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _, _, _ := newTestService(nil)
	r := gin.New()
	SetupAuthRoutes(r.Group("/api/v1"), NewController(svc), &config.Config{JWT: testJWT})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/otp/verify", strings.NewReader(`{"email":"a@b.co","otp":"12"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/otp/verify", strings.NewReader(`{"email":"a@b.co","otp":"123456"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
