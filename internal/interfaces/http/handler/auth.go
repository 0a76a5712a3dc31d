package handler

import (
	"github.com/gin-gonic/gin"
	authapp "github.com/quotebook/backend/internal/application/auth"
)

// AuthHandler handles administrator login and token refresh
type AuthHandler struct {
	BaseHandler
	authService *authapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *authapp.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login exchanges the administrator credentials for a token pair.
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authapp.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tokens, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tokens)
}

// Refresh rotates a refresh token into a new pair.
// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req authapp.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tokens)
}
