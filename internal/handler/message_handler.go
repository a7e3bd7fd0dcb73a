package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aishumaj/express-messagely/internal/domain"
	"github.com/aishumaj/express-messagely/internal/middleware"
	"github.com/aishumaj/express-messagely/internal/pkg/apperror"
	"github.com/aishumaj/express-messagely/internal/pkg/response"
	"github.com/aishumaj/express-messagely/internal/service/message"
)

type MessageService interface {
	Get(ctx context.Context, caller string, id int64) (*domain.MessageDetail, error)
	Create(ctx context.Context, caller string, req message.CreateRequest) (*domain.Message, error)
	MarkRead(ctx context.Context, caller string, id int64) (*domain.ReadReceipt, error)
}

type MessageHandler struct {
	messages MessageService
}

func NewMessageHandler(messages MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

func (h *MessageHandler) Get(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}
	caller, _ := middleware.Caller(c)

	msg, err := h.messages.Get(c.Request.Context(), caller, id)
	if err != nil {
		response.ErrorFromErr(c, err)
		return
	}
	response.Success(c, gin.H{"message": msg})
}

func (h *MessageHandler) Create(c *gin.Context) {
	var req message.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ValidationError(
			"to_username and body are required",
			"Name a recipient and write a message",
		).WithError(err))
		return
	}
	caller, _ := middleware.Caller(c)

	msg, err := h.messages.Create(c.Request.Context(), caller, req)
	if err != nil {
		response.ErrorFromErr(c, err)
		return
	}
	response.Created(c, gin.H{"message": msg})
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}
	caller, _ := middleware.Caller(c)

	receipt, err := h.messages.MarkRead(c.Request.Context(), caller, id)
	if err != nil {
		response.ErrorFromErr(c, err)
		return
	}
	response.Success(c, gin.H{"message": receipt})
}

func messageID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, apperror.ValidationError("Message id must be a positive integer", "Check the message id"))
		return 0, false
	}
	return id, true
}
