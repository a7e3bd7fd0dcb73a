package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aishumaj/express-messagely/internal/domain"
)

// MessageRepository defines message store operations
type MessageRepository interface {
	Create(ctx context.Context, from, to, body string) (*domain.Message, error)
	Get(ctx context.Context, id int64) (*domain.MessageDetail, error)
	MarkRead(ctx context.Context, id int64) (*domain.ReadReceipt, error)
	ListFrom(ctx context.Context, username string) ([]domain.OutgoingMessage, error)
	ListTo(ctx context.Context, username string) ([]domain.IncomingMessage, error)
}

type messageRepository struct {
	db DBTX
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db DBTX) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, from, to, body string) (*domain.Message, error) {
	var m domain.Message
	err := r.db.QueryRow(ctx, `
		INSERT INTO messages (from_username, to_username, body, sent_at)
		VALUES ($1, $2, $3, current_timestamp)
		RETURNING id, from_username, to_username, body, sent_at, read_at`,
		from, to, body,
	).Scan(&m.ID, &m.FromUsername, &m.ToUsername, &m.Body, &m.SentAt, &m.ReadAt)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return nil, fmt.Errorf("recipient %s: %w", to, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return &m, nil
}

func (r *messageRepository) Get(ctx context.Context, id int64) (*domain.MessageDetail, error) {
	var m domain.MessageDetail
	err := r.db.QueryRow(ctx, `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       f.username, f.first_name, f.last_name, f.phone,
		       t.username, t.first_name, t.last_name, t.phone
		FROM messages AS m
		JOIN users AS f ON m.from_username = f.username
		JOIN users AS t ON m.to_username = t.username
		WHERE m.id = $1`,
		id,
	).Scan(&m.ID, &m.Body, &m.SentAt, &m.ReadAt,
		&m.FromUser.Username, &m.FromUser.FirstName, &m.FromUser.LastName, &m.FromUser.Phone,
		&m.ToUser.Username, &m.ToUser.FirstName, &m.ToUser.LastName, &m.ToUser.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("message %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return &m, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, id int64) (*domain.ReadReceipt, error) {
	var rr domain.ReadReceipt
	err := r.db.QueryRow(ctx, `
		UPDATE messages SET read_at = current_timestamp
		WHERE id = $1
		RETURNING id, read_at`,
		id,
	).Scan(&rr.ID, &rr.ReadAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("message %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to mark message read: %w", err)
	}
	return &rr, nil
}

func (r *messageRepository) ListFrom(ctx context.Context, username string) ([]domain.OutgoingMessage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       u.username, u.first_name, u.last_name, u.phone
		FROM messages AS m
		JOIN users AS u ON m.to_username = u.username
		WHERE m.from_username = $1
		ORDER BY m.sent_at, m.id`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.OutgoingMessage{}
	for rows.Next() {
		var m domain.OutgoingMessage
		if err := rows.Scan(&m.ID, &m.Body, &m.SentAt, &m.ReadAt,
			&m.ToUser.Username, &m.ToUser.FirstName, &m.ToUser.LastName, &m.ToUser.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sent messages: %w", err)
	}
	return messages, nil
}

func (r *messageRepository) ListTo(ctx context.Context, username string) ([]domain.IncomingMessage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       u.username, u.first_name, u.last_name, u.phone
		FROM messages AS m
		JOIN users AS u ON m.from_username = u.username
		WHERE m.to_username = $1
		ORDER BY m.sent_at, m.id`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list received messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.IncomingMessage{}
	for rows.Next() {
		var m domain.IncomingMessage
		if err := rows.Scan(&m.ID, &m.Body, &m.SentAt, &m.ReadAt,
			&m.FromUser.Username, &m.FromUser.FirstName, &m.FromUser.LastName, &m.FromUser.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list received messages: %w", err)
	}
	return messages, nil
}
