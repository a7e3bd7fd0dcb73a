package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aishumaj/express-messagely/internal/domain"
)

// RecoveryRepository stores one-time password reset codes in the codes table
type RecoveryRepository interface {
	Insert(ctx context.Context, username, code string, createdAt time.Time) (*domain.RecoveryCode, error)
	Latest(ctx context.Context, username string) (*domain.RecoveryCode, error)
	MarkUsed(ctx context.Context, username, code string) error
	ClaimLatest(ctx context.Context, username, code string) (bool, error)
}

type recoveryRepository struct {
	db DBTX
}

// NewRecoveryRepository creates a new recovery codes repository
func NewRecoveryRepository(db DBTX) RecoveryRepository {
	return &recoveryRepository{db: db}
}

func (r *recoveryRepository) Insert(ctx context.Context, username, code string, createdAt time.Time) (*domain.RecoveryCode, error) {
	var rc domain.RecoveryCode
	err := r.db.QueryRow(ctx, `
		INSERT INTO codes (code, username, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, code, username, created_at, used`,
		code, username, createdAt,
	).Scan(&rc.ID, &rc.Code, &rc.Username, &rc.CreatedAt, &rc.Used)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return nil, fmt.Errorf("account %s: %w", username, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to create recovery code: %w", err)
	}
	return &rc, nil
}

// Latest returns the newest code by created_at, id breaking ties
func (r *recoveryRepository) Latest(ctx context.Context, username string) (*domain.RecoveryCode, error) {
	var rc domain.RecoveryCode
	err := r.db.QueryRow(ctx, `
		SELECT id, code, username, created_at, used
		FROM codes
		WHERE username = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		username,
	).Scan(&rc.ID, &rc.Code, &rc.Username, &rc.CreatedAt, &rc.Used)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("recovery code for %s: %w", username, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get latest recovery code: %w", err)
	}
	return &rc, nil
}

// MarkUsed flags every row with this code for the user
func (r *recoveryRepository) MarkUsed(ctx context.Context, username, code string) error {
	_, err := r.db.Exec(ctx, `UPDATE codes SET used = TRUE WHERE username = $1 AND code = $2 AND NOT used`, username, code)
	if err != nil {
		return fmt.Errorf("failed to mark recovery code used: %w", err)
	}
	return nil
}

// ClaimLatest redeems the newest row in one statement. Concurrent claims serialize
// on the row lock and the loser re-reads used = TRUE.
func (r *recoveryRepository) ClaimLatest(ctx context.Context, username, code string) (bool, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		UPDATE codes SET used = TRUE
		WHERE id = (
			SELECT id FROM codes
			WHERE username = $1
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		)
		AND code = $2
		AND NOT used
		RETURNING id`,
		username, code,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to claim recovery code: %w", err)
	}
	return true, nil
}
