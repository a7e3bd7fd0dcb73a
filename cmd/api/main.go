package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aishumaj/express-messagely/internal/config"
	"github.com/aishumaj/express-messagely/internal/handler"
	"github.com/aishumaj/express-messagely/internal/infrastructure/crypto"
	infraRedis "github.com/aishumaj/express-messagely/internal/infrastructure/redis"
	"github.com/aishumaj/express-messagely/internal/infrastructure/sms"
	"github.com/aishumaj/express-messagely/internal/infrastructure/token"
	"github.com/aishumaj/express-messagely/internal/repository"
	"github.com/aishumaj/express-messagely/internal/service/auth"
	"github.com/aishumaj/express-messagely/internal/service/message"
	"github.com/aishumaj/express-messagely/internal/service/recovery"
	"github.com/aishumaj/express-messagely/internal/service/user"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	slog.Info("Starting messagely API...")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Config load failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.Logging))

	ctx := context.Background()

	db, err := repository.NewDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("Database connection failed", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			slog.Error("Database migration failed", slog.Any("error", err))
			os.Exit(1)
		}
	}

	var redisClient *infraRedis.Client
	if cfg.Redis.Enabled {
		redisClient, err = infraRedis.NewClient(infraRedis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			slog.Error("Redis connection failed", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("Redis connected")
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		slog.Error("Zap logger init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer zapLogger.Sync()

	hasher, err := crypto.NewHasher(cfg.Auth.BcryptCost)
	if err != nil {
		slog.Error("Password hasher init failed", slog.Any("error", err))
		os.Exit(1)
	}

	tokens, err := token.NewIssuer(cfg.Auth.SecretKey, cfg.Auth.TokenTTL)
	if err != nil {
		slog.Error("Token issuer init failed", slog.Any("error", err))
		os.Exit(1)
	}

	accountRepo := repository.NewAccountRepository(db.Pool)
	messageRepo := repository.NewMessageRepository(db.Pool)

	var codeStore recovery.CodeStore
	switch cfg.Recovery.Store {
	case config.RecoveryStoreRedis:
		codeStore = infraRedis.NewRecoveryCodeStore(redisClient, cfg.Recovery.RedisTTL, cfg.Recovery.RedisHistory)
	default:
		codeStore = repository.NewRecoveryRepository(db.Pool)
	}
	ledger := recovery.NewLedger(codeStore)
	slog.Info("Recovery code ledger initialized", slog.String("store", cfg.Recovery.Store))

	var notifier auth.Notifier
	if cfg.SMS.Enabled() {
		twilioNotifier := sms.NewTwilioNotifier(cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.FromNumber, zapLogger.Named("sms"))
		breaker := sms.NewBreaker(sms.BreakerConfig{
			FailureThreshold: cfg.SMS.BreakerThreshold,
			ResetTimeout:     cfg.SMS.BreakerReset,
		}, zapLogger.Named("sms"))
		notifier = sms.NewGuardedNotifier(twilioNotifier, breaker)
		slog.Info("Twilio SMS enabled", slog.String("from", sms.MaskPhone(cfg.SMS.FromNumber)))
	} else {
		notifier = sms.NewLogNotifier(zapLogger.Named("sms"))
		slog.Warn("Twilio not configured, recovery codes will only be logged")
	}

	authService := auth.NewService(accountRepo, hasher, tokens, ledger, notifier, cfg.SMS.Timeout)
	userService := user.NewService(accountRepo)
	messageService := message.NewService(messageRepo)

	var redisPinger handler.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(cfg, authService, handler.Handlers{
		Health:   handler.NewHealthHandler(db, redisPinger),
		Auth:     handler.NewAuthHandler(authService),
		Recovery: handler.NewRecoveryHandler(authService, cfg.Recovery.ExposeCode),
		User:     handler.NewUserHandler(userService, messageService),
		Message:  handler.NewMessageHandler(messageService),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("Server starting", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", slog.Any("error", err))
	}
	authService.Wait()
	if redisClient != nil {
		redisClient.Close()
	}
	db.Close()
	slog.Info("Server stopped")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
