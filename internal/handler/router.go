package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aishumaj/express-messagely/internal/config"
	"github.com/aishumaj/express-messagely/internal/middleware"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	Recovery *RecoveryHandler
	User     *UserHandler
	Message  *MessageHandler
}

func NewRouter(cfg *config.Config, authenticator middleware.TokenAuthenticator, h Handlers) *gin.Engine {
	r := gin.New()

	// Global middleware (order matters!)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.SecurityHeaders(cfg.Server.HTTPS))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Authenticate(authenticator))

	r.GET("/health", h.Health.Shallow)
	r.GET("/health/ready", h.Health.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		users := v1.Group("/users")
		{
			users.GET("", middleware.RequireAuth(), h.User.List)

			own := users.Group("/:username", middleware.EnsureCorrectUser())
			{
				own.GET("", h.User.Get)
				own.GET("/to", h.User.MessagesTo)
				own.GET("/from", h.User.MessagesFrom)
				own.POST("/forgot-password", h.Recovery.ForgotPassword)
				own.POST("/reset-password", h.Recovery.ResetPassword)
			}
		}

		messages := v1.Group("/messages", middleware.RequireAuth())
		{
			messages.POST("", h.Message.Create)
			messages.GET("/:id", h.Message.Get)
			messages.POST("/:id/read", h.Message.MarkRead)
		}
	}

	return r
}
