package recovery_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/aishumaj/express-messagely/internal/domain"
)

// MockCodeStore mocks CodeStore interface
type MockCodeStore struct {
	mock.Mock
}

func (m *MockCodeStore) Insert(ctx context.Context, username, code string, createdAt time.Time) (*domain.RecoveryCode, error) {
	args := m.Called(ctx, username, code, createdAt)
	if fn, ok := args.Get(0).(func(context.Context, string, string, time.Time) *domain.RecoveryCode); ok {
		return fn(ctx, username, code, createdAt), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecoveryCode), args.Error(1)
}

func (m *MockCodeStore) Latest(ctx context.Context, username string) (*domain.RecoveryCode, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecoveryCode), args.Error(1)
}

func (m *MockCodeStore) MarkUsed(ctx context.Context, username, code string) error {
	args := m.Called(ctx, username, code)
	return args.Error(0)
}

func (m *MockCodeStore) ClaimLatest(ctx context.Context, username, code string) (bool, error) {
	args := m.Called(ctx, username, code)
	return args.Bool(0), args.Error(1)
}
