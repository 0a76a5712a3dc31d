package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/quotebook/backend/internal/domain/shared"
	infraauth "github.com/quotebook/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService authenticates the back-office administrator
type AuthService struct {
	credentials *infraauth.AdminCredentials
	jwtService  *infraauth.JWTService
	guard       *infraauth.RefreshGuard
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	credentials *infraauth.AdminCredentials,
	jwtService *infraauth.JWTService,
	guard *infraauth.RefreshGuard,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		credentials: credentials,
		jwtService:  jwtService,
		guard:       guard,
		logger:      logger,
	}
}

// Login checks the credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	if err := s.credentials.Verify(req.Username, req.Password); err != nil {
		s.logger.Warn("Invalid login attempt", zap.String("username", req.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	pair, err := s.jwtService.GenerateTokenPair(strings.TrimSpace(req.Username))
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Administrator logged in", zap.String("username", req.Username))
	return toTokenResponse(pair), nil
}

// Refresh consumes a refresh token and issues a new pair. Each refresh
// token can be used once.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, tokenError(err)
	}

	if err := s.guard.Consume(ctx, claims); err != nil {
		if errors.Is(err, infraauth.ErrRefreshTokenReused) {
			s.logger.Warn("Refresh token reused",
				zap.String("subject", claims.Subject),
				zap.String("jti", claims.ID),
			)
		}
		return nil, tokenError(err)
	}

	pair, err := s.jwtService.GenerateTokenPair(claims.Subject)
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Token refreshed", zap.String("subject", claims.Subject))
	return toTokenResponse(pair), nil
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, infraauth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, infraauth.ErrRefreshTokenReused):
		return shared.NewDomainError("TOKEN_REUSED", "Refresh token has already been used")
	case errors.Is(err, infraauth.ErrInvalidToken),
		errors.Is(err, infraauth.ErrInvalidTokenType),
		errors.Is(err, infraauth.ErrMissingSubject):
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	default:
		return err
	}
}

func toTokenResponse(pair *infraauth.TokenPair) *TokenResponse {
	return &TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}
