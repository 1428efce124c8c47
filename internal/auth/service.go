package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"theaterbook/internal/shared/config"
	"theaterbook/internal/users"
	"theaterbook/pkg/logger"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	OTPLength = 6
	OTPTTL    = 5 * time.Minute
	issuer    = "theaterbook"
)

var (
	ErrInvalidCode     = errors.New("invalid code")
	ErrCodeExpired     = errors.New("code expired")
	ErrInvalidToken    = errors.New("invalid token")
	ErrAccountDisabled = errors.New("account is disabled")
)

// CodeSender delivers a login code to an email address.
type CodeSender interface {
	SendOTP(ctx context.Context, email, code string, ttl time.Duration) error
}

// UserDirectory is the part of the users service auth depends on.
type UserDirectory interface {
	EnsureEmailUser(ctx context.Context, email string) (*users.User, error)
	GetByUID(ctx context.Context, uid string) (*users.User, error)
	Get(ctx context.Context, id string) (*users.User, error)
}

type Service interface {
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (*AuthResponse, error)
	FirebaseLogin(ctx context.Context, idToken string) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	Me(ctx context.Context, userID string) (*users.User, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
}

type service struct {
	repo     Repository
	users    UserDirectory
	sender   CodeSender
	verifier TokenVerifier
	jwt      config.JWTConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewService wires the login flows. verifier may be nil when firebase login
// is disabled.
func NewService(repo Repository, dir UserDirectory, sender CodeSender, verifier TokenVerifier, cfg config.JWTConfig) Service {
	return &service{
		repo:     repo,
		users:    dir,
		sender:   sender,
		verifier: verifier,
		jwt:      cfg,
		log:      logger.GetDefault(),
		now:      time.Now,
	}
}

func generateCode() (string, error) {
	var b strings.Builder
	for i := 0; i < OTPLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) SendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	otp := &OTP{Email: email, CodeHash: string(hash), ExpiresAt: s.now().Add(OTPTTL)}
	if err := s.repo.Upsert(ctx, otp); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}
	if err := s.sender.SendOTP(ctx, email, code, OTPTTL); err != nil {
		return fmt.Errorf("failed to send code: %w", err)
	}
	return nil
}

func (s *service) VerifyOTP(ctx context.Context, email, code string) (*AuthResponse, error) {
	email = normalizeEmail(email)
	otp, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrOTPNotFound) {
			s.log.LogAuthFailure(ctx, "no pending code", "")
			return nil, ErrInvalidCode
		}
		return nil, err
	}
	if s.now().After(otp.ExpiresAt) {
		_ = s.repo.DeleteByEmail(ctx, email)
		s.log.LogAuthFailure(ctx, "code expired", "")
		return nil, ErrCodeExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)) != nil {
		s.log.LogAuthFailure(ctx, "code mismatch", "")
		return nil, ErrInvalidCode
	}
	if err := s.repo.DeleteByEmail(ctx, email); err != nil {
		return nil, err
	}

	user, err := s.users.EnsureEmailUser(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.login(ctx, user, "email_otp")
}

func (s *service) FirebaseLogin(ctx context.Context, idToken string) (*AuthResponse, error) {
	if s.verifier == nil {
		return nil, ErrFirebaseDisabled
	}
	uid, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		s.log.LogAuthFailure(ctx, "firebase token rejected", "")
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	user, err := s.users.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.login(ctx, user, "firebase")
}

func (s *service) login(ctx context.Context, user *users.User, method string) (*AuthResponse, error) {
	if !user.Active {
		return nil, ErrAccountDisabled
	}
	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, err
	}
	s.log.LogAuthSuccess(ctx, user.ID.String(), method)
	return &AuthResponse{User: user, TokenPair: *pair}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.validateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Type != "refresh" {
		return nil, ErrInvalidToken
	}

	// Role changes since the last login are picked up here.
	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, ErrAccountDisabled
	}
	return s.generateTokenPair(user)
}

func (s *service) Me(ctx context.Context, userID string) (*users.User, error) {
	return s.users.Get(ctx, userID)
}

func (s *service) ValidateToken(tokenString string) (*JWTClaims, error) {
	return s.validateToken(tokenString)
}

func (s *service) sign(user *users.User, kind string, ttl time.Duration, now time.Time) (string, error) {
	claims := JWTClaims{
		UserID: user.ID.String(),
		Email:  user.EmailValue(),
		Role:   string(user.Role),
		Type:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
			Subject:   user.ID.String(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwt.Secret))
}

func (s *service) generateTokenPair(user *users.User) (*TokenPair, error) {
	now := s.now()
	access, err := s.sign(user, "access", s.jwt.JWTExpiresIn, now)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, "refresh", s.jwt.RefreshExpiresIn, now)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwt.JWTExpiresIn.Seconds()),
	}, nil
}

func (s *service) validateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwt.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
