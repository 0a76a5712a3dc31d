package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	authapp "github.com/quotebook/backend/internal/application/auth"
	infraauth "github.com/quotebook/backend/internal/infrastructure/auth"
	"github.com/quotebook/backend/internal/infrastructure/cache"
	"github.com/quotebook/backend/internal/infrastructure/config"
	"github.com/quotebook/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *infraauth.JWTService) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	jwtService := infraauth.NewJWTService(config.JWTConfig{
		Secret:                 "access-secret-for-tests-0123456789",
		RefreshSecret:          "refresh-secret-for-tests-0123456789",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "quotebook-test",
	})
	service := authapp.NewAuthService(
		infraauth.NewAdminCredentials(config.AdminConfig{Username: "admin", PasswordHash: string(hash)}),
		jwtService,
		infraauth.NewRefreshGuard(cache.NewInMemoryIdempotencyStore()),
		zap.NewNop(),
	)
	h := NewAuthHandler(service)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	return r, jwtService
}

func TestAuthHandler_Login(t *testing.T) {
	r, jwtService := newAuthRouter(t)

	t.Run("valid credentials issue a token pair", func(t *testing.T) {
		w := serve(r, http.MethodPost, "/auth/login", `{"username":"admin","password":"correct horse"}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		access := gjson.Get(w.Body.String(), "data.access_token").String()
		claims, err := jwtService.ValidateAccessToken(access)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Subject)
		assert.Equal(t, infraauth.RoleAdmin, claims.Role)
		assert.Equal(t, "Bearer", gjson.Get(w.Body.String(), "data.token_type").String())
	})

	t.Run("wrong password answers 401", func(t *testing.T) {
		w := serve(r, http.MethodPost, "/auth/login", `{"username":"admin","password":"battery staple"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidCredentials, gjson.Get(w.Body.String(), "error.code").String())
	})

	t.Run("missing password is a validation error", func(t *testing.T) {
		w := serve(r, http.MethodPost, "/auth/login", `{"username":"admin"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "password", gjson.Get(w.Body.String(), "error.details.0.field").String())
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	r, _ := newAuthRouter(t)
	login := serve(r, http.MethodPost, "/auth/login", `{"username":"admin","password":"correct horse"}`)
	require.Equal(t, http.StatusOK, login.Code)
	refresh := gjson.Get(login.Body.String(), "data.refresh_token").String()
	body := `{"refresh_token":"` + refresh + `"}`

	first := serve(r, http.MethodPost, "/auth/refresh", body)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.NotEqual(t, refresh, gjson.Get(first.Body.String(), "data.refresh_token").String())

	reused := serve(r, http.MethodPost, "/auth/refresh", body)
	assert.Equal(t, http.StatusUnauthorized, reused.Code)
	assert.Equal(t, dto.ErrCodeTokenReused, gjson.Get(reused.Body.String(), "error.code").String())

	garbage := serve(r, http.MethodPost, "/auth/refresh", `{"refresh_token":"not-a-jwt"}`)
	assert.Equal(t, http.StatusUnauthorized, garbage.Code)
	assert.Equal(t, dto.ErrCodeTokenInvalid, gjson.Get(garbage.Body.String(), "error.code").String())
}
