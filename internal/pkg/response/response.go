package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aishumaj/express-messagely/internal/pkg/apperror"
)

// RequestIDKey mirrors middleware.RequestIDKey without importing it
const RequestIDKey = "request_id"

// Success sends a successful JSON response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 Created response
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends a 204 No Content response
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an RFC 7807 error response
func Error(c *gin.Context, err *apperror.AppError) {
	if err.RequestID == "" {
		if id := c.GetString(RequestIDKey); id != "" {
			err = err.WithRequestID(id)
		}
	}
	if err.Instance == "" && c.Request != nil {
		err = err.WithInstance(c.Request.URL.Path)
	}
	c.Header("Content-Type", "application/problem+json")
	c.AbortWithStatusJSON(err.Status, err)
}

// ErrorFromErr converts a standard error to AppError and sends response
func ErrorFromErr(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			slog.Error("Request failed",
				slog.String("path", c.Request.URL.Path),
				slog.String("request_id", c.GetString(RequestIDKey)),
				slog.Any("error", err))
		}
		Error(c, appErr)
		return
	}
	slog.Error("Unhandled error",
		slog.String("path", c.Request.URL.Path),
		slog.String("request_id", c.GetString(RequestIDKey)),
		slog.Any("error", err))
	Error(c, apperror.InternalError(
		"Unexpected error",
		"Try again later",
	).WithError(err))
}
