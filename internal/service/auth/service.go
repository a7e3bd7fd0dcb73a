package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aishumaj/express-messagely/internal/domain"
	"github.com/aishumaj/express-messagely/internal/infrastructure/crypto"
	recoveryGen "github.com/aishumaj/express-messagely/internal/infrastructure/recovery"
	"github.com/aishumaj/express-messagely/internal/pkg/apperror"
)

const DefaultSMSTimeout = 10 * time.Second

// Service implements registration, login and password recovery
type Service struct {
	accounts   AccountRepository
	hasher     Hasher
	tokens     TokenIssuer
	ledger     Ledger
	notifier   Notifier
	smsTimeout time.Duration

	sends sync.WaitGroup
}

// NewService creates a new auth service
func NewService(
	accounts AccountRepository,
	hasher Hasher,
	tokens TokenIssuer,
	ledger Ledger,
	notifier Notifier,
	smsTimeout time.Duration,
) *Service {
	if smsTimeout <= 0 {
		smsTimeout = DefaultSMSTimeout
	}
	return &Service{
		accounts:   accounts,
		hasher:     hasher,
		tokens:     tokens,
		ledger:     ledger,
		notifier:   notifier,
		smsTimeout: smsTimeout,
	}
}

// RegisterRequest for account creation
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,max=64"`
	Password  string `json:"password" binding:"required,max=72"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
}

// LoginRequest for password authentication
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ResetPasswordRequest carries the SMS code and the replacement password
type ResetPasswordRequest struct {
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,max=72"`
}

// TokenResponse is returned by register and login
type TokenResponse struct {
	Token string `json:"token"`
}

// ForgotPasswordResult identifies the code that was issued
type ForgotPasswordResult struct {
	Username string `json:"username"`
	Code     string `json:"code,omitempty"`
}

// ResetPasswordResponse confirms a password change
type ResetPasswordResponse struct {
	Message string `json:"message"`
}

// Register stores a new account and logs it in
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	hash, err := s.hashPassword(req.Password)
	if err != nil {
		recordOperation(opRegister, resultError)
		return nil, err
	}

	account, err := s.accounts.Register(ctx, &domain.Account{
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			recordOperation(opRegister, resultFailure)
			return nil, apperror.ConflictError("Username already exists", "Choose a different username").WithError(err)
		}
		recordOperation(opRegister, resultError)
		slog.Error("Failed to register account", slog.String("username", req.Username), slog.Any("error", err))
		return nil, apperror.InternalError("Could not create account", "Try again later").WithError(err)
	}

	token, err := s.issueToken(account.Username)
	if err != nil {
		recordOperation(opRegister, resultError)
		return nil, err
	}

	recordOperation(opRegister, resultSuccess)
	slog.Info("Account registered", slog.String("username", account.Username))
	return &TokenResponse{Token: token}, nil
}

// Login checks credentials. A missing account and a wrong password give the same error.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	account, err := s.accounts.FindByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			recordOperation(opLogin, resultError)
			slog.Error("Failed to load account", slog.String("username", req.Username), slog.Any("error", err))
			return nil, apperror.InternalError("Could not log in", "Try again later").WithError(err)
		}
		s.hasher.VerifyMissing(req.Password)
		recordOperation(opLogin, resultFailure)
		slog.Warn("Login failed", slog.String("username", req.Username), slog.String("reason", "unknown_user"))
		return nil, invalidCredentials()
	}

	if !s.hasher.Verify(req.Password, account.PasswordHash) {
		recordOperation(opLogin, resultFailure)
		slog.Warn("Login failed", slog.String("username", req.Username), slog.String("reason", "invalid_password"))
		return nil, invalidCredentials()
	}

	if err := s.accounts.TouchLogin(ctx, account.Username); err != nil {
		slog.Warn("Failed to update last login",
			slog.String("username", account.Username),
			slog.Any("error", err))
	}
	s.rehashIfNeeded(ctx, account, req.Password)

	token, err := s.issueToken(account.Username)
	if err != nil {
		recordOperation(opLogin, resultError)
		return nil, err
	}

	recordOperation(opLogin, resultSuccess)
	slog.Info("Login successful", slog.String("username", account.Username))
	return &TokenResponse{Token: token}, nil
}

// ForgotPassword issues a new code and texts it to the account's phone.
// Delivery happens in the background; its failure does not fail the request.
func (s *Service) ForgotPassword(ctx context.Context, username string) (*ForgotPasswordResult, error) {
	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			recordOperation(opForgot, resultFailure)
			return nil, apperror.NotFoundError("User").WithError(err)
		}
		recordOperation(opForgot, resultError)
		return nil, apperror.InternalError("Could not start password reset", "Try again later").WithError(err)
	}

	rc, err := s.ledger.Issue(ctx, account.Username)
	if err != nil {
		recordOperation(opForgot, resultError)
		slog.Error("Failed to issue recovery code", slog.String("username", username), slog.Any("error", err))
		return nil, apperror.InternalError("Could not start password reset", "Try again later").WithError(err)
	}

	s.deliverCode(ctx, account, rc.Code)

	recordOperation(opForgot, resultSuccess)
	return &ForgotPasswordResult{Username: account.Username, Code: rc.Code}, nil
}

// ResetPassword redeems code and replaces the password.
// The new digest is computed before the code is claimed.
func (s *Service) ResetPassword(ctx context.Context, username string, req ResetPasswordRequest) (*ResetPasswordResponse, error) {
	hash, err := s.hashPassword(req.NewPassword)
	if err != nil {
		recordOperation(opReset, resultError)
		return nil, err
	}

	ok, err := s.ledger.Claim(ctx, username, req.Code)
	if err != nil {
		recordOperation(opReset, resultError)
		slog.Error("Failed to claim recovery code", slog.String("username", username), slog.Any("error", err))
		return nil, apperror.InternalError("Could not reset password", "Try again later").WithError(err)
	}
	if !ok {
		recordOperation(opReset, resultFailure)
		slog.Warn("Password reset rejected", slog.String("username", username))
		return nil, invalidCode()
	}

	if err := s.accounts.SetPasswordHash(ctx, username, hash); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			recordOperation(opReset, resultFailure)
			return nil, invalidCode().WithError(err)
		}
		recordOperation(opReset, resultError)
		slog.Error("Failed to store new password", slog.String("username", username), slog.Any("error", err))
		return nil, apperror.InternalError("Could not reset password", "Try again later").WithError(err)
	}

	recordOperation(opReset, resultSuccess)
	slog.Info("Password reset", slog.String("username", username))
	return &ResetPasswordResponse{Message: "Password reset"}, nil
}

// Authenticate resolves a bearer token to its username
func (s *Service) Authenticate(token string) (string, error) {
	username, err := s.tokens.Verify(token)
	if err != nil {
		return "", apperror.InvalidTokenError("Token is invalid or expired").WithError(err)
	}
	return username, nil
}

// Wait blocks until background SMS deliveries finish
func (s *Service) Wait() {
	s.sends.Wait()
}

func (s *Service) deliverCode(ctx context.Context, account *domain.Account, code string) {
	s.sends.Add(1)
	go func() {
		defer s.sends.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.smsTimeout)
		defer cancel()

		id, err := s.notifier.Send(sendCtx, account.Phone, recoveryGen.SMSBody(code))
		if err != nil {
			authSMSDeliveryTotal.WithLabelValues("failed").Inc()
			slog.Error("Failed to deliver recovery code",
				slog.String("username", account.Username),
				slog.Any("error", err))
			return
		}
		authSMSDeliveryTotal.WithLabelValues("sent").Inc()
		slog.Info("Recovery code delivered",
			slog.String("username", account.Username),
			slog.String("delivery_id", id))
	}()
}

func (s *Service) hashPassword(password string) (string, error) {
	start := time.Now()
	hash, err := s.hasher.Hash(password)
	authHashDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, crypto.ErrPasswordTooLong) {
			return "", apperror.ValidationError("Password is too long", "Use at most 72 bytes").WithError(err)
		}
		return "", apperror.InternalError("Could not process password", "Try again later").WithError(err)
	}
	return hash, nil
}

// rehashIfNeeded upgrades digests created at a different cost
func (s *Service) rehashIfNeeded(ctx context.Context, account *domain.Account, password string) {
	if !s.hasher.NeedsRehash(account.PasswordHash) {
		return
	}
	hash, err := s.hashPassword(password)
	if err != nil {
		slog.Warn("Failed to rehash password", slog.String("username", account.Username), slog.Any("error", err))
		return
	}
	if err := s.accounts.SetPasswordHash(ctx, account.Username, hash); err != nil {
		slog.Warn("Failed to store rehashed password", slog.String("username", account.Username), slog.Any("error", err))
	}
}

func (s *Service) issueToken(username string) (string, error) {
	token, err := s.tokens.Issue(username)
	if err != nil {
		slog.Error("Failed to sign token", slog.String("username", username), slog.Any("error", err))
		return "", apperror.InternalError("Could not issue token", "Try again later").WithError(err)
	}
	return token, nil
}

func invalidCredentials() *apperror.AppError {
	return apperror.UnauthorizedError("Invalid credentials", "Check your username and password")
}

func invalidCode() *apperror.AppError {
	return apperror.UnauthorizedError("Invalid code or user", "Request a new code and try again")
}
