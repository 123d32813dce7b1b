// internal/handlers/auth.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/lebem/lebem-backend/internal/i18n"
	"github.com/lebem/lebem-backend/internal/services"
	"github.com/lebem/lebem-backend/internal/utils"
)

type AuthHandler struct {
	authService Authenticator
}

func NewAuthHandler(authService Authenticator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.authService.Login(c.Request.Context(), &req)
	if errors.Is(err, services.ErrInvalidCredentials) {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
		return
	}
	if err != nil {
		respondError(c, err, "auth")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":      i18n.T(lang, i18n.KeyAuthLoginSuccess),
		"admin":        authResponse.Admin,
		"access_token": authResponse.AccessToken,
		"token_type":   authResponse.TokenType,
		"expires_in":   authResponse.ExpiresIn,
	})
}
