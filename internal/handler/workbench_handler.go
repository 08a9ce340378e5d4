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

// WorkbenchHandler handles workbench and membership HTTP requests
type WorkbenchHandler struct {
	workbenchService *service.WorkbenchService
	profileService   *service.ProfileService
}

// NewWorkbenchHandler creates a new WorkbenchHandler
func NewWorkbenchHandler(workbenchService *service.WorkbenchService, profileService *service.ProfileService) *WorkbenchHandler {
	return &WorkbenchHandler{
		workbenchService: workbenchService,
		profileService:   profileService,
	}
}

// CreateWorkbenchRequest represents the create workbench request body
type CreateWorkbenchRequest struct {
	Name string `json:"name"`
}

// UpdateWorkbenchRequest represents the update workbench request body
type UpdateWorkbenchRequest struct {
	Name string `json:"name"`
}

// InviteMemberRequest represents the invite member request body
type InviteMemberRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// UpdateMemberRoleRequest represents the update member role request body
type UpdateMemberRoleRequest struct {
	Role string `json:"role"`
}

// BatchGetUsersRequest represents the batch user lookup request body
type BatchGetUsersRequest struct {
	UserIDs []string `json:"userIds"`
}

// WorkbenchResponse represents a workbench in API responses
type WorkbenchResponse struct {
	ID        int32  `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// MemberResponse represents a workbench member in API responses
type MemberResponse struct {
	UserID   string `json:"userId"`
	Role     string `json:"role"`
	JoinedAt string `json:"joinedAt"`
}

// CreateWorkbench handles POST /api/v1/workbenches
func (h *WorkbenchHandler) CreateWorkbench(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateWorkbenchRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	workbench, err := h.workbenchService.CreateWorkbench(userID, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create workbench")
		return NewInternalError(c, "Failed to create workbench")
	}

	log.Info().Str("user_id", userID.String()).Int32("workbench_id", workbench.ID).Msg("Workbench created")
	return c.JSON(http.StatusCreated, toWorkbenchResponse(workbench))
}

// GetWorkbenches handles GET /api/v1/workbenches
func (h *WorkbenchHandler) GetWorkbenches(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	workbenches, err := h.workbenchService.GetWorkbenchesForUser(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get workbenches")
		return NewInternalError(c, "Failed to get workbenches")
	}

	response := make([]WorkbenchResponse, len(workbenches))
	for i, wb := range workbenches {
		response[i] = toWorkbenchResponse(wb)
	}
	return c.JSON(http.StatusOK, response)
}

// GetWorkbench handles GET /api/v1/workbenches/:id
func (h *WorkbenchHandler) GetWorkbench(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workbench ID", nil)
	}

	workbench, err := h.workbenchService.GetWorkbench(int32(id), userID)
	if err != nil {
		if errors.Is(err, domain.ErrWorkbenchNotFound) {
			return NewNotFoundError(c, "Workbench not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workbench")
		}
		log.Error().Err(err).Int("workbench_id", id).Msg("Failed to get workbench")
		return NewInternalError(c, "Failed to get workbench")
	}
	return c.JSON(http.StatusOK, toWorkbenchResponse(workbench))
}

// UpdateWorkbench handles PUT /api/v1/workbenches/:id
func (h *WorkbenchHandler) UpdateWorkbench(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workbench ID", nil)
	}

	var req UpdateWorkbenchRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	workbench, err := h.workbenchService.UpdateWorkbench(int32(id), userID, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrWorkbenchNotFound) {
			return NewNotFoundError(c, "Workbench not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Admin role required")
		}
		if errors.Is(err, domain.ErrNameRequired) || errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: err.Error()},
			})
		}
		log.Error().Err(err).Int("workbench_id", id).Msg("Failed to update workbench")
		return NewInternalError(c, "Failed to update workbench")
	}

	log.Info().Int32("workbench_id", workbench.ID).Str("user_id", userID.String()).Msg("Workbench updated")
	return c.JSON(http.StatusOK, toWorkbenchResponse(workbench))
}

// DeleteWorkbench handles DELETE /api/v1/workbenches/:id
func (h *WorkbenchHandler) DeleteWorkbench(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workbench ID", nil)
	}

	if err := h.workbenchService.DeleteWorkbench(int32(id), userID); err != nil {
		if errors.Is(err, domain.ErrWorkbenchNotFound) {
			return NewNotFoundError(c, "Workbench not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Only the owner can delete a workbench")
		}
		log.Error().Err(err).Int("workbench_id", id).Msg("Failed to delete workbench")
		return NewInternalError(c, "Failed to delete workbench")
	}

	log.Info().Int("workbench_id", id).Str("user_id", userID.String()).Msg("Workbench deleted")
	return c.NoContent(http.StatusNoContent)
}

// ListMembers handles GET /api/v1/workbenches/:id/members
func (h *WorkbenchHandler) ListMembers(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workbench ID", nil)
	}

	members, err := h.workbenchService.ListMembers(int32(id), userID)
	if err != nil {
		if errors.Is(err, domain.ErrWorkbenchNotFound) {
			return NewNotFoundError(c, "Workbench not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workbench")
		}
		log.Error().Err(err).Int("workbench_id", id).Msg("Failed to list members")
		return NewInternalError(c, "Failed to list members")
	}

	response := make([]MemberResponse, len(members))
	for i, m := range members {
		response[i] = toMemberResponse(m)
	}
	return c.JSON(http.StatusOK, response)
}

// InviteMember handles POST /api/v1/workbenches/:id/members
func (h *WorkbenchHandler) InviteMember(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workbench ID", nil)
	}

	var req InviteMemberRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		return NewValidationError(c, "Invalid user ID", []ValidationError{
			{Field: "userId", Message: "Must be a valid UUID"},
		})
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return NewValidationError(c, "Invalid role", []ValidationError{
			{Field: "role", Message: "Role must be admin or member"},
		})
	}

	if err := h.workbenchService.InviteMember(int32(id), userID, targetID, role); err != nil {
		switch {
		case errors.Is(err, domain.ErrWorkbenchNotFound):
			return NewNotFoundError(c, "Workbench not found")
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "User not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Admin role required")
		case errors.Is(err, domain.ErrCannotInviteOwner):
			return NewValidationError(c, "Cannot invite a user as owner", nil)
		case errors.Is(err, domain.ErrMemberAlreadyExists):
			return NewConflictError(c, "User is already a member")
		}
		log.Error().Err(err).Int("workbench_id", id).Str("target_id", targetID.String()).Msg("Failed to invite member")
		return NewInternalError(c, "Failed to invite member")
	}

	log.Info().Int("workbench_id", id).Str("target_id", targetID.String()).Str("role", string(role)).Msg("Member invited")
	return c.NoContent(http.StatusCreated)
}

// UpdateMemberRole handles PUT /api/v1/workbenches/:id/members/:userId
func (h *WorkbenchHandler) UpdateMemberRole(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workbench ID", nil)
	}

	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return NewValidationError(c, "Invalid user ID", nil)
	}

	var req UpdateMemberRoleRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return NewValidationError(c, "Invalid role", []ValidationError{
			{Field: "role", Message: "Role must be admin or member"},
		})
	}

	if err := h.workbenchService.UpdateMemberRole(int32(id), userID, targetID, role); err != nil {
		switch {
		case errors.Is(err, domain.ErrWorkbenchNotFound):
			return NewNotFoundError(c, "Workbench not found")
		case errors.Is(err, domain.ErrMemberNotFound):
			return NewNotFoundError(c, "Member not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Admin role required")
		case errors.Is(err, domain.ErrCannotChangeOwnRole):
			return NewValidationError(c, "Cannot change your own role", nil)
		case errors.Is(err, domain.ErrCannotPromoteOwner), errors.Is(err, domain.ErrCannotModifyOwner):
			return NewValidationError(c, "The owner role cannot be assigned or removed here", nil)
		}
		log.Error().Err(err).Int("workbench_id", id).Str("target_id", targetID.String()).Msg("Failed to update member role")
		return NewInternalError(c, "Failed to update member role")
	}

	log.Info().Int("workbench_id", id).Str("target_id", targetID.String()).Str("role", string(role)).Msg("Member role updated")
	return c.NoContent(http.StatusNoContent)
}

// RemoveMember handles DELETE /api/v1/workbenches/:id/members/:userId
func (h *WorkbenchHandler) RemoveMember(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workbench ID", nil)
	}

	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return NewValidationError(c, "Invalid user ID", nil)
	}

	if err := h.workbenchService.RemoveMember(int32(id), userID, targetID); err != nil {
		switch {
		case errors.Is(err, domain.ErrWorkbenchNotFound):
			return NewNotFoundError(c, "Workbench not found")
		case errors.Is(err, domain.ErrMemberNotFound):
			return NewNotFoundError(c, "Member not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Not allowed to remove this member")
		case errors.Is(err, domain.ErrNoAdminForSuccession):
			return NewConflictError(c, "Promote an admin before the owner can leave")
		}
		log.Error().Err(err).Int("workbench_id", id).Str("target_id", targetID.String()).Msg("Failed to remove member")
		return NewInternalError(c, "Failed to remove member")
	}

	log.Info().Int("workbench_id", id).Str("target_id", targetID.String()).Msg("Member removed")
	return c.NoContent(http.StatusNoContent)
}

// SearchUsers handles GET /api/v1/workbenches/:id/users/search
func (h *WorkbenchHandler) SearchUsers(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workbench ID", nil)
	}

	query := c.QueryParam("q")
	users, err := h.profileService.SearchWorkbenchUsers(int32(id), userID, query)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workbench")
		}
		log.Error().Err(err).Int("workbench_id", id).Msg("Failed to search users")
		return NewInternalError(c, "Failed to search users")
	}

	response := make([]UserResponse, len(users))
	for i, u := range users {
		response[i] = toUserResponse(u, "")
	}
	return c.JSON(http.StatusOK, response)
}

// BatchGetUsers handles POST /api/v1/workbenches/:id/users/batch
func (h *WorkbenchHandler) BatchGetUsers(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workbench ID", nil)
	}

	var req BatchGetUsersRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	ids := make([]uuid.UUID, 0, len(req.UserIDs))
	for _, raw := range req.UserIDs {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return NewValidationError(c, "Invalid user ID", []ValidationError{
				{Field: "userIds", Message: "Each user ID must be a valid UUID"},
			})
		}
		ids = append(ids, parsed)
	}

	users, err := h.profileService.GetUsersByIDs(int32(id), userID, ids)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workbench")
		}
		log.Error().Err(err).Int("workbench_id", id).Msg("Failed to batch get users")
		return NewInternalError(c, "Failed to get users")
	}

	response := make([]UserResponse, len(users))
	for i, u := range users {
		response[i] = toUserResponse(u, "")
	}
	return c.JSON(http.StatusOK, response)
}

// Helper function to convert domain.Workbench to WorkbenchResponse
func toWorkbenchResponse(wb *domain.Workbench) WorkbenchResponse {
	return WorkbenchResponse{
		ID:        wb.ID,
		Name:      wb.Name,
		OwnerID:   wb.OwnerID.String(),
		CreatedAt: wb.CreatedAt.Format(time.RFC3339),
		UpdatedAt: wb.UpdatedAt.Format(time.RFC3339),
	}
}

// Helper function to convert domain.WorkbenchMember to MemberResponse
func toMemberResponse(m *domain.WorkbenchMember) MemberResponse {
	return MemberResponse{
		UserID:   m.UserID.String(),
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt.Format(time.RFC3339),
	}
}
