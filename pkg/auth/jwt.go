package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// UserContext carries the authenticated caller's identity and tenant
type UserContext struct {
	UserID   string
	TenantID string
}

type contextKey string

const userContextKey contextKey = "user_context"

// ErrNoUserContext is returned when no user context is present
var ErrNoUserContext = errors.New("no user context in request")

// WithUserContext stores the user context on the request context
func WithUserContext(ctx context.Context, user UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(ctx context.Context) (UserContext, error) {
	user, ok := ctx.Value(userContextKey).(UserContext)
	if !ok {
		return UserContext{}, ErrNoUserContext
	}
	return user, nil
}

// JWTConfig configures token validation
type JWTConfig struct {
	SecretKey string
	Issuer    string
}

// JWTValidator validates bearer tokens and extracts the caller identity
type JWTValidator struct {
	config JWTConfig
}

// NewJWTValidator creates a validator for the given configuration
func NewJWTValidator(config JWTConfig) (*JWTValidator, error) {
	if config.SecretKey == "" {
		return nil, errors.New("JWT secret key is required")
	}
	return &JWTValidator{config: config}, nil
}

// claims are the token claims the platform issues
type claims struct {
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

// Validate parses and verifies a token, returning the caller's context
func (v *JWTValidator) Validate(tokenString string) (UserContext, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(v.config.SecretKey), nil
	}, jwt.WithIssuer(v.config.Issuer))
	if err != nil {
		return UserContext{}, fmt.Errorf("invalid token: %w", err)
	}

	tokenClaims, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return UserContext{}, errors.New("invalid token claims")
	}
	if tokenClaims.Subject == "" {
		return UserContext{}, errors.New("token missing subject")
	}

	return UserContext{
		UserID:   tokenClaims.Subject,
		TenantID: tokenClaims.TenantID,
	}, nil
}
