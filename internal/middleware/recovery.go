package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/aishumaj/express-messagely/internal/pkg/apperror"
	"github.com/aishumaj/express-messagely/internal/pkg/response"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("Panic recovered",
					slog.Any("error", err),
					slog.String("request_id", c.GetString(RequestIDKey)),
					slog.String("stack", string(debug.Stack())),
				)
				response.Error(c, apperror.InternalError("Unexpected error", "Try again later"))
			}
		}()
		c.Next()
	}
}
