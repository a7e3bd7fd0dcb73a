package message

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aishumaj/express-messagely/internal/domain"
	"github.com/aishumaj/express-messagely/internal/pkg/apperror"
)

// Repository is the message store
type Repository interface {
	Create(ctx context.Context, from, to, body string) (*domain.Message, error)
	Get(ctx context.Context, id int64) (*domain.MessageDetail, error)
	MarkRead(ctx context.Context, id int64) (*domain.ReadReceipt, error)
	ListFrom(ctx context.Context, username string) ([]domain.OutgoingMessage, error)
	ListTo(ctx context.Context, username string) ([]domain.IncomingMessage, error)
}

// Service enforces who may read and acknowledge messages
type Service struct {
	messages Repository
}

// NewService creates a new message service
func NewService(messages Repository) *Service {
	return &Service{messages: messages}
}

// CreateRequest for sending a message
type CreateRequest struct {
	ToUsername string `json:"to_username" binding:"required"`
	Body       string `json:"body" binding:"required"`
}

// Get returns a message if caller sent or received it
func (s *Service) Get(ctx context.Context, caller string, id int64) (*domain.MessageDetail, error) {
	msg, err := s.messages.Get(ctx, id)
	if err != nil {
		return nil, storeError(err, "Could not load message")
	}
	if !msg.IsParticipant(caller) {
		slog.Warn("Message access denied", slog.String("username", caller), slog.Int64("message_id", id))
		return nil, apperror.UnauthorizedError("Cannot read this message", "Only the sender or recipient may read it")
	}
	return msg, nil
}

// Create sends a message from caller
func (s *Service) Create(ctx context.Context, caller string, req CreateRequest) (*domain.Message, error) {
	msg, err := s.messages.Create(ctx, caller, req.ToUsername, req.Body)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFoundError("Recipient").WithError(err)
		}
		return nil, storeError(err, "Could not send message")
	}
	slog.Info("Message sent",
		slog.Int64("message_id", msg.ID),
		slog.String("from", caller),
		slog.String("to", req.ToUsername))
	return msg, nil
}

// MarkRead records that the recipient has read the message
func (s *Service) MarkRead(ctx context.Context, caller string, id int64) (*domain.ReadReceipt, error) {
	msg, err := s.messages.Get(ctx, id)
	if err != nil {
		return nil, storeError(err, "Could not load message")
	}
	if msg.ToUser.Username != caller {
		return nil, apperror.UnauthorizedError("Cannot set this message to read", "Only the recipient may mark it read")
	}

	receipt, err := s.messages.MarkRead(ctx, id)
	if err != nil {
		return nil, storeError(err, "Could not update message")
	}
	return receipt, nil
}

// ListFrom returns messages sent by username
func (s *Service) ListFrom(ctx context.Context, username string) ([]domain.OutgoingMessage, error) {
	msgs, err := s.messages.ListFrom(ctx, username)
	if err != nil {
		return nil, storeError(err, "Could not list messages")
	}
	return msgs, nil
}

// ListTo returns messages received by username
func (s *Service) ListTo(ctx context.Context, username string) ([]domain.IncomingMessage, error) {
	msgs, err := s.messages.ListTo(ctx, username)
	if err != nil {
		return nil, storeError(err, "Could not list messages")
	}
	return msgs, nil
}

func storeError(err error, detail string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFoundError("Message").WithError(err)
	}
	slog.Error(detail, slog.Any("error", err))
	return apperror.InternalError(detail, "Try again later").WithError(err)
}
