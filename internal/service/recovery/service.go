package recovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aishumaj/express-messagely/internal/domain"
	recoveryGen "github.com/aishumaj/express-messagely/internal/infrastructure/recovery"
)

// Ledger issues and redeems single-use password reset codes.
// Only the newest code per username is ever eligible.
type Ledger struct {
	store    CodeStore
	generate CodeGenerator
	now      func() time.Time
}

// Option customizes a Ledger
type Option func(*Ledger)

// WithGenerator overrides the code source
func WithGenerator(g CodeGenerator) Option {
	return func(l *Ledger) { l.generate = g }
}

// WithClock overrides the time source used for created_at
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// NewLedger creates a new code ledger over store
func NewLedger(store CodeStore, opts ...Option) *Ledger {
	l := &Ledger{
		store:    store,
		generate: recoveryGen.GenerateCode,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Issue records a new code for username. Earlier codes are left in place
// but stop being eligible.
func (l *Ledger) Issue(ctx context.Context, username string) (*domain.RecoveryCode, error) {
	code, err := l.generate()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	rc, err := l.store.Insert(ctx, username, code, l.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("store code: %w", err)
	}

	slog.Debug("Recovery code issued",
		slog.String("username", username),
		slog.Int64("code_id", rc.ID))
	return rc, nil
}

// Verify reports whether code matches the newest unused code for username.
// A user with no codes is a plain false.
func (l *Ledger) Verify(ctx context.Context, username, code string) (bool, error) {
	code = recoveryGen.NormalizeCode(code)
	if !recoveryGen.IsCodeFormat(code) {
		return false, nil
	}

	latest, err := l.store.Latest(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load latest code: %w", err)
	}
	return latest.Matches(code), nil
}

// Consume marks every code equal to code for username as used.
// Nothing matching is not an error.
func (l *Ledger) Consume(ctx context.Context, username, code string) error {
	code = recoveryGen.NormalizeCode(code)
	if !recoveryGen.IsCodeFormat(code) {
		return nil
	}
	if err := l.store.MarkUsed(ctx, username, code); err != nil {
		return fmt.Errorf("consume code: %w", err)
	}
	return nil
}

// Claim verifies and consumes in one step. Of concurrent claims for the
// same code at most one returns true.
func (l *Ledger) Claim(ctx context.Context, username, code string) (bool, error) {
	code = recoveryGen.NormalizeCode(code)
	if !recoveryGen.IsCodeFormat(code) {
		return false, nil
	}

	ok, err := l.store.ClaimLatest(ctx, username, code)
	if err != nil {
		return false, fmt.Errorf("claim code: %w", err)
	}
	if ok {
		slog.Info("Recovery code redeemed", slog.String("username", username))
	}
	return ok, nil
}
