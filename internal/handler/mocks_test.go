package handler_test

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"github.com/aishumaj/express-messagely/internal/domain"
	"github.com/aishumaj/express-messagely/internal/service/auth"
	"github.com/aishumaj/express-messagely/internal/service/message"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.TokenResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.TokenResponse), args.Error(1)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, username string) (*auth.ForgotPasswordResult, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.ForgotPasswordResult), args.Error(1)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, username string, req auth.ResetPasswordRequest) (*auth.ResetPasswordResponse, error) {
	args := m.Called(ctx, username, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.ResetPasswordResponse), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context) ([]domain.AccountSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountSummary), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, username string) (*domain.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

type MockMessageService struct {
	mock.Mock
}

func (m *MockMessageService) Get(ctx context.Context, caller string, id int64) (*domain.MessageDetail, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MessageDetail), args.Error(1)
}

func (m *MockMessageService) Create(ctx context.Context, caller string, req message.CreateRequest) (*domain.Message, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockMessageService) MarkRead(ctx context.Context, caller string, id int64) (*domain.ReadReceipt, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReadReceipt), args.Error(1)
}

func (m *MockMessageService) ListFrom(ctx context.Context, username string) ([]domain.OutgoingMessage, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OutgoingMessage), args.Error(1)
}

func (m *MockMessageService) ListTo(ctx context.Context, username string) ([]domain.IncomingMessage, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IncomingMessage), args.Error(1)
}

// tokenTable authenticates tokens of the form "token-<username>"
type tokenTable map[string]string

func (t tokenTable) Authenticate(token string) (string, error) {
	if username, ok := t[token]; ok {
		return username, nil
	}
	return "", errors.New("invalid token")
}

type stubHealth struct {
	err error
}

func (s stubHealth) HealthCheck(ctx context.Context) error { return s.err }

func (s stubHealth) Ping(ctx context.Context) error { return s.err }
