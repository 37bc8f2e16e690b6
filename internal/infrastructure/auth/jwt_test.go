package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	cfg := config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-chars",
		TokenExpiration: 30 * 24 * time.Hour,
		Issuer:          "test-issuer",
	}
	return NewJWTService(cfg)
}

func TestNewJWTService(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:          "test-secret",
		TokenExpiration: 720 * time.Hour,
		Issuer:          "test-issuer",
	}

	svc := NewJWTService(cfg)

	assert.NotNil(t, svc)
	assert.Equal(t, []byte(cfg.Secret), svc.secret)
	assert.Equal(t, cfg.TokenExpiration, svc.expiration)
	assert.Equal(t, cfg.Issuer, svc.issuer)
}

func TestIssueIntakeToken(t *testing.T) {
	svc := newTestJWTService()
	onboardingID := uuid.New()

	token, expiresAt, err := svc.IssueIntakeToken(onboardingID, "bvi")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))
	assert.True(t, expiresAt.Before(time.Now().Add(31*24*time.Hour)))
}

func TestValidateIntakeToken_Success(t *testing.T) {
	svc := newTestJWTService()
	onboardingID := uuid.New()

	token, _, err := svc.IssueIntakeToken(onboardingID, "singapore")
	require.NoError(t, err)

	claims, err := svc.ValidateIntakeToken(token)

	require.NoError(t, err)
	assert.Equal(t, onboardingID.String(), claims.OnboardingID)
	assert.Equal(t, "singapore", claims.Jurisdiction)
	assert.Equal(t, TokenTypeIntake, claims.TokenType)
	assert.Equal(t, "test-issuer", claims.Issuer)
}

func TestValidateIntakeToken_ExpiredToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-chars",
		TokenExpiration: -1 * time.Hour, // Already expired
		Issuer:          "test-issuer",
	}
	svc := NewJWTService(cfg)

	token, _, err := svc.IssueIntakeToken(uuid.New(), "bvi")
	require.NoError(t, err)

	_, err = svc.ValidateIntakeToken(token)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateIntakeToken_InvalidToken(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateIntakeToken("invalid-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateIntakeToken_DifferentSecret(t *testing.T) {
	svc1 := newTestJWTService()

	token, _, err := svc1.IssueIntakeToken(uuid.New(), "cayman")
	require.NoError(t, err)

	cfg := config.JWTConfig{
		Secret:          "different-secret-key-32-chars!",
		TokenExpiration: 720 * time.Hour,
		Issuer:          "test-issuer",
	}
	svc2 := NewJWTService(cfg)

	_, err = svc2.ValidateIntakeToken(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_GetOnboardingUUID(t *testing.T) {
	svc := newTestJWTService()
	onboardingID := uuid.New()

	token, _, err := svc.IssueIntakeToken(onboardingID, "panama")
	require.NoError(t, err)

	claims, err := svc.ValidateIntakeToken(token)
	require.NoError(t, err)

	parsed, err := claims.GetOnboardingUUID()

	require.NoError(t, err)
	assert.Equal(t, onboardingID, parsed)
}

func TestClaims_GetRemainingTTL(t *testing.T) {
	svc := newTestJWTService()

	token, _, err := svc.IssueIntakeToken(uuid.New(), "hong_kong")
	require.NoError(t, err)

	claims, err := svc.ValidateIntakeToken(token)
	require.NoError(t, err)

	ttl := claims.GetRemainingTTL()
	assert.Greater(t, ttl, 29*24*time.Hour)
	assert.LessOrEqual(t, ttl, 30*24*time.Hour)
}

func TestClaims_GetRemainingTTL_NoExpiry(t *testing.T) {
	claims := &Claims{}
	assert.Equal(t, time.Duration(0), claims.GetRemainingTTL())
}

func TestClaims_TimestampAccessors(t *testing.T) {
	svc := newTestJWTService()

	token, expiresAt, err := svc.IssueIntakeToken(uuid.New(), "bvi")
	require.NoError(t, err)

	claims, err := svc.ValidateIntakeToken(token)
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now(), claims.GetIssuedAtTime(), 5*time.Second)
	assert.WithinDuration(t, expiresAt, claims.GetExpiresAtTime(), time.Second)
}
