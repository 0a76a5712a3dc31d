package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quotebook/backend/internal/infrastructure/auth"
	"github.com/quotebook/backend/internal/infrastructure/logger"
	"github.com/quotebook/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTSubjectKey = "jwt_subject"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

var errMissingToken = errors.New("missing bearer token")

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// RequiredRole rejects tokens carrying another role with 403
	RequiredRole string
	// Logger for middleware logging
	Logger *zap.Logger
}

// AdminAuth requires a valid administrator access token
func AdminAuth(jwtService *auth.JWTService, log *zap.Logger) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
		JWTService:   jwtService,
		RequiredRole: auth.RoleAdmin,
		Logger:       log,
	})
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			handleAuthError(c, cfg, errMissingToken, "Missing authorization header")
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			handleAuthError(c, cfg, errMissingToken, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
		if tokenString == "" {
			handleAuthError(c, cfg, errMissingToken, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		if cfg.RequiredRole != "" && claims.Role != cfg.RequiredRole {
			cfg.Logger.Warn("JWT role rejected",
				zap.String("subject", claims.Subject),
				zap.String("role", claims.Role),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden,
				"Insufficient role",
				c.GetString(logger.RequestIDKey),
			))
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTSubjectKey, claims.Subject)

		// The request logger picks the actor up from the context
		c.Request = c.Request.WithContext(logger.WithActor(c.Request.Context(), claims.Subject))

		cfg.Logger.Debug("JWT authentication successful", zap.String("subject", claims.Subject))

		c.Next()
	}
}

// handleAuthError answers 401 with a code describing why the token was refused
func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	cfg.Logger.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path),
	)

	errorCode := dto.ErrCodeTokenInvalid
	errorMessage := "Invalid token"

	switch {
	case errors.Is(err, errMissingToken):
		errorCode = dto.ErrCodeUnauthorized
		errorMessage = "Authentication required"
	case errors.Is(err, auth.ErrExpiredToken):
		errorCode = dto.ErrCodeTokenExpired
		errorMessage = "Token has expired"
	case errors.Is(err, auth.ErrInvalidTokenType):
		errorMessage = "Invalid token type"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
		errorCode,
		errorMessage,
		c.GetString(logger.RequestIDKey),
	))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTSubject retrieves the authenticated administrator's username
func GetJWTSubject(c *gin.Context) string {
	return c.GetString(JWTSubjectKey)
}
