package recovery

import (
	"context"
	"time"

	"github.com/aishumaj/express-messagely/internal/domain"
)

// CodeStore persists one-time codes. Implemented by the Postgres codes table
// and by the Redis list store.
type CodeStore interface {
	Insert(ctx context.Context, username, code string, createdAt time.Time) (*domain.RecoveryCode, error)
	Latest(ctx context.Context, username string) (*domain.RecoveryCode, error)
	MarkUsed(ctx context.Context, username, code string) error
	ClaimLatest(ctx context.Context, username, code string) (bool, error)
}

// CodeGenerator draws a fresh 6-digit code
type CodeGenerator func() (string, error)
