package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	onboardingapp "github.com/incorp/backend/internal/application/onboarding"
	"github.com/incorp/backend/internal/infrastructure/config"
)

// TokenType represents the type of JWT token
type TokenType string

// TokenTypeIntake scopes a token to a single onboarding session. There is
// no user account behind it; the token itself is the resume credential.
const TokenTypeIntake TokenType = "intake"

// Common errors
var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
	ErrInvalidTokenType    = errors.New("invalid token type")
	ErrInvalidClaims       = errors.New("invalid token claims")
	ErrTokenNotYetValid    = errors.New("token is not yet valid")
	ErrMissingOnboardingID = errors.New("missing onboarding_id in claims")
	ErrTokenRevoked        = errors.New("token has been revoked")
)

// Claims represents custom JWT claims for intake tokens
type Claims struct {
	jwt.RegisteredClaims
	OnboardingID string    `json:"onboarding_id"`
	Jurisdiction string    `json:"jurisdiction"`
	TokenType    TokenType `json:"token_type"`
}

// JWTService issues and validates intake tokens
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.TokenExpiration,
		issuer:     cfg.Issuer,
	}
}

// IssueIntakeToken generates a signed token scoped to one onboarding session
func (s *JWTService) IssueIntakeToken(onboardingID uuid.UUID, jurisdiction string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   onboardingID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		OnboardingID: onboardingID.String(),
		Jurisdiction: jurisdiction,
		TokenType:    TokenTypeIntake,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// ValidateIntakeToken validates an intake token and returns its claims
func (s *JWTService) ValidateIntakeToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.TokenType != TokenTypeIntake {
		return nil, ErrInvalidTokenType
	}

	if claims.OnboardingID == "" {
		return nil, ErrMissingOnboardingID
	}

	return claims, nil
}

// GetOnboardingUUID extracts and parses the onboarding session ID from claims
func (c *Claims) GetOnboardingUUID() (uuid.UUID, error) {
	return uuid.Parse(c.OnboardingID)
}

// GetIssuedAtTime returns the token's issued-at time as time.Time
func (c *Claims) GetIssuedAtTime() time.Time {
	if c.IssuedAt != nil {
		return c.IssuedAt.Time
	}
	return time.Time{}
}

// GetExpiresAtTime returns the token's expiration time as time.Time
func (c *Claims) GetExpiresAtTime() time.Time {
	if c.ExpiresAt != nil {
		return c.ExpiresAt.Time
	}
	return time.Time{}
}

// GetRemainingTTL returns the remaining time until the token expires
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(c.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// GetTokenExpiration returns the configured token lifetime
func (s *JWTService) GetTokenExpiration() time.Duration {
	return s.expiration
}

// Ensure JWTService implements TokenIssuer
var _ onboardingapp.TokenIssuer = (*JWTService)(nil)
