package middleware

import (
	"net/http"
	"strings"

	"theaterbook/internal/shared/config"
	"theaterbook/internal/shared/utils/response"
	"theaterbook/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUserRole  = users.RoleContextKey
)

// parseAccessToken validates a bearer header and returns its claims when it
// carries a valid access token.
func parseAccessToken(header, secret string) (jwt.MapClaims, string) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, "authorization header format must be Bearer {token}"
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, "invalid or expired token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, "invalid token claims"
	}
	if tokenType, ok := claims["type"]; !ok || tokenType != "access" {
		return nil, "invalid token type"
	}
	return claims, ""
}

func setClaims(c *gin.Context, claims jwt.MapClaims) {
	c.Set(ContextUserID, claims["user_id"])
	c.Set(ContextUserEmail, claims["email"])
	c.Set(ContextUserRole, claims["role"])
}

// JWTAuthWithConfig creates a JWT authentication middleware with config
func JWTAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header is required", nil, nil)
			c.Abort()
			return
		}

		claims, reason := parseAccessToken(authHeader, cfg.JWT.Secret)
		if claims == nil {
			response.RespondJSON(c, "error", http.StatusUnauthorized, reason, nil, nil)
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// RequireAdmin lets branch admins and superadmins through.
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(string(users.RoleAdmin), string(users.RoleSuperAdmin))
}

// RequireSuperAdmin middleware that requires the superadmin role
func RequireSuperAdmin() gin.HandlerFunc {
	return RequireRoles(string(users.RoleSuperAdmin))
}

// RequireRoles middleware checks if user has any of the required roles
func RequireRoles(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextUserRole)
		if !exists {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "user role not found in context", nil, nil)
			c.Abort()
			return
		}

		role, _ := userRole.(string)
		for _, r := range requiredRoles {
			if role == r {
				c.Next()
				return
			}
		}

		response.RespondJSON(c, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
		c.Abort()
	}
}

// OptionalAuthWithConfig validates a JWT if one is present but doesn't require it.
func OptionalAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			if claims, _ := parseAccessToken(authHeader, cfg.JWT.Secret); claims != nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id, if any.
func CurrentUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// IsAdmin reports whether the authenticated caller holds an admin role.
func IsAdmin(c *gin.Context) bool {
	v, _ := c.Get(ContextUserRole)
	role, _ := v.(string)
	return role == string(users.RoleAdmin) || role == string(users.RoleSuperAdmin)
}
