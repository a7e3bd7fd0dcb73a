package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/aishumaj/express-messagely/internal/pkg/apperror"
	"github.com/aishumaj/express-messagely/internal/pkg/response"
	"github.com/aishumaj/express-messagely/internal/service/auth"
)

// AuthService is the registration and login surface of auth.Service
type AuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.TokenResponse, error)
	Login(ctx context.Context, req auth.LoginRequest) (*auth.TokenResponse, error)
}

type AuthHandler struct {
	authService AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an account and returns a token for it
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ValidationError(
			"Registration fields are missing or invalid",
			"Provide username, password, first_name, last_name and phone",
		).WithErrors(map[string]string{
			"username": "Required, at most 64 characters",
			"password": "Required, at most 72 bytes",
		}).WithError(err))
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		response.ErrorFromErr(c, err)
		return
	}
	response.Created(c, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ValidationError(
			"Username and password are required",
			"Check your login details",
		).WithError(err))
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		response.ErrorFromErr(c, err)
		return
	}
	response.Success(c, resp)
}
