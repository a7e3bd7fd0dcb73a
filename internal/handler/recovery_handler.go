package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/aishumaj/express-messagely/internal/pkg/apperror"
	"github.com/aishumaj/express-messagely/internal/pkg/response"
	"github.com/aishumaj/express-messagely/internal/service/auth"
)

// RecoveryService is the password reset surface of auth.Service
type RecoveryService interface {
	ForgotPassword(ctx context.Context, username string) (*auth.ForgotPasswordResult, error)
	ResetPassword(ctx context.Context, username string, req auth.ResetPasswordRequest) (*auth.ResetPasswordResponse, error)
}

type RecoveryHandler struct {
	recoveryService RecoveryService
	exposeCode      bool
}

// NewRecoveryHandler creates the forgot/reset handler. When exposeCode is false
// the code is only ever sent by SMS.
func NewRecoveryHandler(recoveryService RecoveryService, exposeCode bool) *RecoveryHandler {
	return &RecoveryHandler{recoveryService: recoveryService, exposeCode: exposeCode}
}

func (h *RecoveryHandler) ForgotPassword(c *gin.Context) {
	result, err := h.recoveryService.ForgotPassword(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.ErrorFromErr(c, err)
		return
	}
	if !h.exposeCode {
		result.Code = ""
	}
	response.Success(c, result)
}

func (h *RecoveryHandler) ResetPassword(c *gin.Context) {
	var req auth.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ValidationError(
			"Code and new password are required",
			"Enter the 6-digit code sent to your phone",
		).WithErrors(map[string]string{
			"code":         "Required",
			"new_password": "Required, at most 72 bytes",
		}).WithError(err))
		return
	}

	resp, err := h.recoveryService.ResetPassword(c.Request.Context(), c.Param("username"), req)
	if err != nil {
		response.ErrorFromErr(c, err)
		return
	}
	response.Success(c, resp)
}
