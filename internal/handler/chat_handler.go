package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/orbitask/orbitask-backend/internal/domain"
	"github.com/orbitask/orbitask-backend/internal/middleware"
	"github.com/orbitask/orbitask-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// CreateDirectChatRequest represents the create direct chat request body
type CreateDirectChatRequest struct {
	UserID string `json:"userId"`
}

// CreateGroupChatRequest represents the create group chat request body
type CreateGroupChatRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
}

// UpdateChatRequest represents the update chat request body
type UpdateChatRequest struct {
	Name string `json:"name"`
}

// ChatResponse represents a chat in API responses
type ChatResponse struct {
	ID            int32   `json:"id"`
	Type          string  `json:"type"`
	WorkbenchID   int32   `json:"workbenchId"`
	Name          *string `json:"name,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	LastMessageAt *string `json:"lastMessageAt,omitempty"`
}

// ChatMemberResponse represents a chat member in API responses
type ChatMemberResponse struct {
	UserID   string  `json:"userId"`
	Role     *string `json:"role,omitempty"`
	JoinedAt string  `json:"joinedAt"`
}

// CreateDirectChat handles POST /api/v1/workbenches/:id/chats/direct
func (h *ChatHandler) CreateDirectChat(c echo.Context) error {
	userID := middleware.GetUserID(c)
	workbenchID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workbench ID", nil)
	}

	var req CreateDirectChatRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	otherID, err := uuid.Parse(req.UserID)
	if err != nil {
		return NewValidationError(c, "Invalid user ID", []ValidationError{
			{Field: "userId", Message: "Must be a valid UUID"},
		})
	}

	chat, err := h.chatService.CreateDirectChat(int32(workbenchID), userID, otherID)
	if err != nil {
		return h.mapCreateChatError(c, workbenchID, err)
	}

	log.Info().Int32("chat_id", chat.ID).Int("workbench_id", workbenchID).Str("type", string(chat.Type)).Msg("Chat created")
	return c.JSON(http.StatusCreated, toChatResponse(chat))
}

// CreateGroupChat handles POST /api/v1/workbenches/:id/chats/group
func (h *ChatHandler) CreateGroupChat(c echo.Context) error {
	userID := middleware.GetUserID(c)
	workbenchID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workbench ID", nil)
	}

	var req CreateGroupChatRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	memberIDs := make([]uuid.UUID, 0, len(req.MemberIDs))
	for _, raw := range req.MemberIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return NewValidationError(c, "Invalid member ID", []ValidationError{
				{Field: "memberIds", Message: "Each member ID must be a valid UUID"},
			})
		}
		memberIDs = append(memberIDs, id)
	}

	chat, err := h.chatService.CreateGroupChat(int32(workbenchID), userID, req.Name, memberIDs)
	if err != nil {
		return h.mapCreateChatError(c, workbenchID, err)
	}

	log.Info().Int32("chat_id", chat.ID).Int("workbench_id", workbenchID).Str("type", string(chat.Type)).Msg("Chat created")
	return c.JSON(http.StatusCreated, toChatResponse(chat))
}

func (h *ChatHandler) mapCreateChatError(c echo.Context, workbenchID int, err error) error {
	switch {
	case errors.Is(err, domain.ErrWorkbenchNotFound):
		return NewNotFoundError(c, "Workbench not found")
	case errors.Is(err, domain.ErrMemberNotFound):
		return NewNotFoundError(c, "All chat members must belong to the workbench")
	case errors.Is(err, domain.ErrForbidden):
		return NewForbiddenError(c, "Not a member of this workbench")
	case errors.Is(err, domain.ErrDirectChatMemberCount):
		return NewValidationError(c, "Direct chats require exactly two distinct members", nil)
	case errors.Is(err, domain.ErrNameRequired), errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: err.Error()},
		})
	}
	log.Error().Err(err).Int("workbench_id", workbenchID).Msg("Failed to create chat")
	return NewInternalError(c, "Failed to create chat")
}

// GetChats handles GET /api/v1/workbenches/:id/chats
func (h *ChatHandler) GetChats(c echo.Context) error {
	userID := middleware.GetUserID(c)
	workbenchID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workbench ID", nil)
	}

	chats, err := h.chatService.GetChatsForUser(int32(workbenchID), userID)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workbench")
		}
		log.Error().Err(err).Int("workbench_id", workbenchID).Msg("Failed to get chats")
		return NewInternalError(c, "Failed to get chats")
	}

	response := make([]ChatResponse, len(chats))
	for i, chat := range chats {
		response[i] = toChatResponse(chat)
	}
	return c.JSON(http.StatusOK, response)
}

// GetChat handles GET /api/v1/chats/:id
func (h *ChatHandler) GetChat(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid chat ID", nil)
	}

	chat, err := h.chatService.GetChat(int32(id), userID)
	if err != nil {
		if errors.Is(err, domain.ErrChatNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Chat not found")
		}
		if errors.Is(err, domain.ErrNotChatMember) || errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this chat")
		}
		log.Error().Err(err).Int("chat_id", id).Msg("Failed to get chat")
		return NewInternalError(c, "Failed to get chat")
	}
	return c.JSON(http.StatusOK, toChatResponse(chat))
}

// UpdateChat handles PUT /api/v1/chats/:id
func (h *ChatHandler) UpdateChat(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid chat ID", nil)
	}

	var req UpdateChatRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	chat, err := h.chatService.UpdateChat(int32(id), userID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrChatNotFound), errors.Is(err, domain.ErrNotFound):
			return NewNotFoundError(c, "Chat not found")
		case errors.Is(err, domain.ErrNotChatMember), errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Chat admin role required")
		case errors.Is(err, domain.ErrDirectChatImmutable):
			return NewValidationError(c, "Direct chats cannot be renamed", nil)
		case errors.Is(err, domain.ErrNameRequired), errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: err.Error()},
			})
		}
		log.Error().Err(err).Int("chat_id", id).Msg("Failed to update chat")
		return NewInternalError(c, "Failed to update chat")
	}

	log.Info().Int32("chat_id", chat.ID).Msg("Chat updated")
	return c.JSON(http.StatusOK, toChatResponse(chat))
}

// DeleteChat handles DELETE /api/v1/chats/:id
func (h *ChatHandler) DeleteChat(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid chat ID", nil)
	}

	if err := h.chatService.DeleteChat(int32(id), userID); err != nil {
		if errors.Is(err, domain.ErrChatNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Chat not found")
		}
		if errors.Is(err, domain.ErrNotChatMember) || errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not allowed to delete this chat")
		}
		log.Error().Err(err).Int("chat_id", id).Msg("Failed to delete chat")
		return NewInternalError(c, "Failed to delete chat")
	}

	log.Info().Int("chat_id", id).Msg("Chat deleted")
	return c.NoContent(http.StatusNoContent)
}

// GetChatMembers handles GET /api/v1/chats/:id/members
func (h *ChatHandler) GetChatMembers(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid chat ID", nil)
	}

	members, err := h.chatService.GetChatMembers(int32(id), userID)
	if err != nil {
		if errors.Is(err, domain.ErrChatNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Chat not found")
		}
		if errors.Is(err, domain.ErrNotChatMember) || errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this chat")
		}
		log.Error().Err(err).Int("chat_id", id).Msg("Failed to get chat members")
		return NewInternalError(c, "Failed to get chat members")
	}

	response := make([]ChatMemberResponse, len(members))
	for i, m := range members {
		response[i] = toChatMemberResponse(m)
	}
	return c.JSON(http.StatusOK, response)
}

// Helper function to convert domain.Chat to ChatResponse
func toChatResponse(chat *domain.Chat) ChatResponse {
	resp := ChatResponse{
		ID:          chat.ID,
		Type:        string(chat.Type),
		WorkbenchID: chat.WorkbenchID,
		Name:        chat.Name,
		CreatedAt:   chat.CreatedAt.Format(time.RFC3339),
	}
	if chat.LastMessageAt != nil {
		last := chat.LastMessageAt.Format(time.RFC3339)
		resp.LastMessageAt = &last
	}
	return resp
}

// Helper function to convert domain.ChatUser to ChatMemberResponse
func toChatMemberResponse(m *domain.ChatUser) ChatMemberResponse {
	resp := ChatMemberResponse{
		UserID:   m.UserID.String(),
		JoinedAt: m.JoinedAt.Format(time.RFC3339),
	}
	if m.Role != nil {
		role := string(*m.Role)
		resp.Role = &role
	}
	return resp
}
