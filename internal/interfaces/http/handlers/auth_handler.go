package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/DrZedd42/fiat-gateway/internal/domain/errors"
	"github.com/DrZedd42/fiat-gateway/internal/interfaces/http/response"
)

type AuthService interface {
	Login(ctx context.Context, password string) (string, error)
}

// AuthHandler handles admin authentication
type AuthHandler struct {
	authUsecase AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase AuthService) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// LoginInput holds the admin password
type LoginInput struct {
	Password string `json:"password" binding:"required"`
}

// Login exchanges the admin password for an owner token
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	token, err := h.authUsecase.Login(c.Request.Context(), input.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"token": token})
}
