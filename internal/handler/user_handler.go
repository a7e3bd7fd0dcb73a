package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/aishumaj/express-messagely/internal/domain"
	"github.com/aishumaj/express-messagely/internal/pkg/response"
)

type UserService interface {
	List(ctx context.Context) ([]domain.AccountSummary, error)
	Get(ctx context.Context, username string) (*domain.Account, error)
}

// MailboxService lists a user's sent and received messages
type MailboxService interface {
	ListFrom(ctx context.Context, username string) ([]domain.OutgoingMessage, error)
	ListTo(ctx context.Context, username string) ([]domain.IncomingMessage, error)
}

type UserHandler struct {
	users   UserService
	mailbox  MailboxService
}

func NewUserHandler(users UserService, mailbox MailboxService) *UserHandler {
	return &UserHandler{users: users, mailbox: mailbox}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		response.ErrorFromErr(c, err)
		return
	}
	response.Success(c, gin.H{"users": users})
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.ErrorFromErr(c, err)
		return
	}
	response.Success(c, gin.H{"user": user})
}

// MessagesTo lists the inbox of :username
func (h *UserHandler) MessagesTo(c *gin.Context) {
	messages, err := h.mailbox.ListTo(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.ErrorFromErr(c, err)
		return
	}
	response.Success(c, gin.H{"messages": messages})
}

// MessagesFrom lists the outbox of :username
func (h *UserHandler) MessagesFrom(c *gin.Context) {
	messages, err := h.mailbox.ListFrom(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.ErrorFromErr(c, err)
		return
	}
	response.Success(c, gin.H{"messages": messages})
}
