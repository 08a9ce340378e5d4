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

// TagHandler handles tag-related HTTP requests
type TagHandler struct {
	tagService *service.TagService
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// TagRequest represents the create/update tag request body
type TagRequest struct {
	Title string `json:"title"`
}

// CreateTag handles POST /api/v1/boards/:id/tags
func (h *TagHandler) CreateTag(c echo.Context) error {
	userID := middleware.GetUserID(c)
	boardID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid board ID", nil)
	}

	var req TagRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	tag, err := h.tagService.CreateTag(int32(boardID), userID, req.Title)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBoardNotFound), errors.Is(err, domain.ErrNotFound):
			return NewNotFoundError(c, "Board not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Admin role required")
		case errors.Is(err, domain.ErrTitleRequired), errors.Is(err, domain.ErrTitleTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "title", Message: err.Error()},
			})
		}
		log.Error().Err(err).Int("board_id", boardID).Msg("Failed to create tag")
		return NewInternalError(c, "Failed to create tag")
	}

	log.Info().Int32("tag_id", tag.ID).Int("board_id", boardID).Msg("Tag created")
	return c.JSON(http.StatusCreated, tag)
}

// GetTags handles GET /api/v1/boards/:id/tags
func (h *TagHandler) GetTags(c echo.Context) error {
	userID := middleware.GetUserID(c)
	boardID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid board ID", nil)
	}

	tags, err := h.tagService.GetTagsForBoard(int32(boardID), userID)
	if err != nil {
		if errors.Is(err, domain.ErrBoardNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Board not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workbench")
		}
		log.Error().Err(err).Int("board_id", boardID).Msg("Failed to get tags")
		return NewInternalError(c, "Failed to get tags")
	}
	return c.JSON(http.StatusOK, tags)
}

// UpdateTag handles PUT /api/v1/tags/:id
func (h *TagHandler) UpdateTag(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid tag ID", nil)
	}

	var req TagRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	tag, err := h.tagService.UpdateTag(int32(id), userID, req.Title)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTagNotFound), errors.Is(err, domain.ErrNotFound):
			return NewNotFoundError(c, "Tag not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Admin role required")
		case errors.Is(err, domain.ErrTitleRequired), errors.Is(err, domain.ErrTitleTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "title", Message: err.Error()},
			})
		}
		log.Error().Err(err).Int("tag_id", id).Msg("Failed to update tag")
		return NewInternalError(c, "Failed to update tag")
	}

	log.Info().Int32("tag_id", tag.ID).Msg("Tag updated")
	return c.JSON(http.StatusOK, tag)
}

// DeleteTag handles DELETE /api/v1/tags/:id
func (h *TagHandler) DeleteTag(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid tag ID", nil)
	}

	if err := h.tagService.DeleteTag(int32(id), userID); err != nil {
		if errors.Is(err, domain.ErrTagNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Tag not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Admin role required")
		}
		log.Error().Err(err).Int("tag_id", id).Msg("Failed to delete tag")
		return NewInternalError(c, "Failed to delete tag")
	}

	log.Info().Int("tag_id", id).Msg("Tag deleted")
	return c.NoContent(http.StatusNoContent)
}
