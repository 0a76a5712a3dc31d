package auth

import (
	"context"
	"testing"
	"time"

	"github.com/quotebook/backend/internal/domain/shared"
	infraauth "github.com/quotebook/backend/internal/infrastructure/auth"
	"github.com/quotebook/backend/internal/infrastructure/cache"
	"github.com/quotebook/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein-please"), bcrypt.MinCost)
	require.NoError(t, err)

	creds := infraauth.NewAdminCredentials(config.AdminConfig{Username: "admin", PasswordHash: string(hash)})
	jwtService := infraauth.NewJWTService(config.JWTConfig{
		Secret:                 "access-secret-for-tests-0123456789",
		RefreshSecret:          "refresh-secret-for-tests-0123456789",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "quotebook-test",
	})
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	return NewAuthService(creds, jwtService, infraauth.NewRefreshGuard(store), zap.NewNop())
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

func TestAuthService_Login(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	tokens, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "letmein-please"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.True(t, tokens.RefreshTokenExpiresAt.After(tokens.AccessTokenExpiresAt))

	_, err = svc.Login(ctx, LoginRequest{Username: "admin", Password: "nope"})
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, err))
}

func TestAuthService_Refresh(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	tokens, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "letmein-please"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: tokens.RefreshToken})
	assert.Equal(t, "TOKEN_REUSED", errorCode(t, err))

	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: rotated.RefreshToken})
	require.NoError(t, err)
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	tokens, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "letmein-please"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: tokens.AccessToken})
	assert.Equal(t, "TOKEN_INVALID", errorCode(t, err))

	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: "not-a-jwt"})
	assert.Equal(t, "TOKEN_INVALID", errorCode(t, err))
}
