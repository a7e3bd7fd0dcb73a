package user

import (
	"context"
	"errors"

	"github.com/aishumaj/express-messagely/internal/domain"
	"github.com/aishumaj/express-messagely/internal/pkg/apperror"
)

// Repository reads accounts for the user directory
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	List(ctx context.Context) ([]domain.AccountSummary, error)
}

// Service exposes the user directory
type Service struct {
	accounts Repository
}

func NewService(accounts Repository) *Service {
	return &Service{accounts: accounts}
}

func (s *Service) List(ctx context.Context) ([]domain.AccountSummary, error) {
	users, err := s.accounts.List(ctx)
	if err != nil {
		return nil, apperror.InternalError("Could not list users", "Try again later").WithError(err)
	}
	return users, nil
}

// Get returns the full profile; the password hash never serializes
func (s *Service) Get(ctx context.Context, username string) (*domain.Account, error) {
	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFoundError("User").WithError(err)
		}
		return nil, apperror.InternalError("Could not load user", "Try again later").WithError(err)
	}
	return account, nil
}
