package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aishumaj/express-messagely/internal/domain"
)

// AccountRepository defines credential store operations
type AccountRepository interface {
	Register(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	TouchLogin(ctx context.Context, username string) error
	SetPasswordHash(ctx context.Context, username, hash string) error
	List(ctx context.Context) ([]domain.AccountSummary, error)
}

type accountRepository struct {
	db DBTX
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db DBTX) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `username, password, first_name, last_name, phone, join_at, last_login_at`

// Register inserts a new account with join_at and last_login_at set to now
func (r *accountRepository) Register(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (username, password, first_name, last_name, phone, join_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, current_timestamp, current_timestamp)
		RETURNING `+accountColumns,
		account.Username, account.PasswordHash, account.FirstName, account.LastName, account.Phone,
	)

	created, err := scanAccount(row)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return nil, fmt.Errorf("register %s: %w", account.Username, domain.ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to register account: %w", err)
	}
	return created, nil
}

func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE username = $1`, username)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", username, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (r *accountRepository) TouchLogin(ctx context.Context, username string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = current_timestamp WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("failed to update login timestamp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", username, domain.ErrNotFound)
	}
	return nil
}

func (r *accountRepository) SetPasswordHash(ctx context.Context, username, hash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password = $2 WHERE username = $1`, username, hash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", username, domain.ErrNotFound)
	}
	return nil
}

func (r *accountRepository) List(ctx context.Context) ([]domain.AccountSummary, error) {
	rows, err := r.db.Query(ctx, `SELECT username, first_name, last_name FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.AccountSummary{}
	for rows.Next() {
		var a domain.AccountSummary
		if err := rows.Scan(&a.Username, &a.FirstName, &a.LastName); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	var lastLogin *time.Time
	if err := row.Scan(&a.Username, &a.PasswordHash, &a.FirstName, &a.LastName, &a.Phone, &a.JoinAt, &lastLogin); err != nil {
		return nil, err
	}
	if lastLogin != nil {
		a.LastLoginAt = *lastLogin
	}
	return &a, nil
}
