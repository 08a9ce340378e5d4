package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/orbitask/orbitask-backend/internal/domain"
	"github.com/orbitask/orbitask-backend/internal/middleware"
	"github.com/orbitask/orbitask-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// MessageHandler handles message-related HTTP requests
type MessageHandler struct {
	messageService *service.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// MessageRequest represents the create/update message request body
type MessageRequest struct {
	Content string `json:"content"`
}

// CreateMessage handles POST /api/v1/chats/:id/messages
func (h *MessageHandler) CreateMessage(c echo.Context) error {
	userID := middleware.GetUserID(c)
	chatID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid chat ID", nil)
	}

	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	message, err := h.messageService.CreateMessage(int32(chatID), userID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrChatNotFound), errors.Is(err, domain.ErrNotFound):
			return NewNotFoundError(c, "Chat not found")
		case errors.Is(err, domain.ErrNotChatMember), errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Not a member of this chat")
		case errors.Is(err, domain.ErrEmptyMessage), errors.Is(err, domain.ErrMessageTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "content", Message: err.Error()},
			})
		}
		log.Error().Err(err).Int("chat_id", chatID).Msg("Failed to create message")
		return NewInternalError(c, "Failed to create message")
	}

	return c.JSON(http.StatusCreated, message)
}

// GetMessages handles GET /api/v1/chats/:id/messages
func (h *MessageHandler) GetMessages(c echo.Context) error {
	userID := middleware.GetUserID(c)
	chatID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid chat ID", nil)
	}

	messages, err := h.messageService.GetMessagesForChat(int32(chatID), userID)
	if err != nil {
		if errors.Is(err, domain.ErrChatNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Chat not found")
		}
		if errors.Is(err, domain.ErrNotChatMember) || errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this chat")
		}
		log.Error().Err(err).Int("chat_id", chatID).Msg("Failed to get messages")
		return NewInternalError(c, "Failed to get messages")
	}
	return c.JSON(http.StatusOK, messages)
}

// UpdateMessage handles PUT /api/v1/messages/:id
func (h *MessageHandler) UpdateMessage(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid message ID", nil)
	}

	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	message, err := h.messageService.UpdateMessage(int32(id), userID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMessageNotFound), errors.Is(err, domain.ErrNotFound):
			return NewNotFoundError(c, "Message not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Only the author can edit a message")
		case errors.Is(err, domain.ErrEmptyMessage), errors.Is(err, domain.ErrMessageTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "content", Message: err.Error()},
			})
		}
		log.Error().Err(err).Int("message_id", id).Msg("Failed to update message")
		return NewInternalError(c, "Failed to update message")
	}

	return c.JSON(http.StatusOK, message)
}

// DeleteMessage handles DELETE /api/v1/messages/:id
func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid message ID", nil)
	}

	if err := h.messageService.DeleteMessage(int32(id), userID); err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Message not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Only the author or a chat admin can delete a message")
		}
		log.Error().Err(err).Int("message_id", id).Msg("Failed to delete message")
		return NewInternalError(c, "Failed to delete message")
	}

	return c.NoContent(http.StatusNoContent)
}
