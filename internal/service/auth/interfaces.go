package auth

import (
	"context"

	"github.com/aishumaj/express-messagely/internal/domain"
)

// AccountRepository is the credential store used by the auth flows
type AccountRepository interface {
	Register(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	TouchLogin(ctx context.Context, username string) error
	SetPasswordHash(ctx context.Context, username, hash string) error
}

// Hasher hashes and checks passwords
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
	VerifyMissing(password string) bool
	NeedsRehash(digest string) bool
}

// TokenIssuer signs and verifies bearer tokens
type TokenIssuer interface {
	Issue(username string) (string, error)
	Verify(token string) (string, error)
}

// Ledger issues and redeems one-time recovery codes
type Ledger interface {
	Issue(ctx context.Context, username string) (*domain.RecoveryCode, error)
	Claim(ctx context.Context, username, code string) (bool, error)
}

// Notifier delivers a text message; returns a provider delivery id
type Notifier interface {
	Send(ctx context.Context, to, body string) (string, error)
}
