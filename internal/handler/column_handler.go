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

// ColumnHandler handles column-related HTTP requests
type ColumnHandler struct {
	columnService *service.ColumnService
}

// NewColumnHandler creates a new ColumnHandler
func NewColumnHandler(columnService *service.ColumnService) *ColumnHandler {
	return &ColumnHandler{columnService: columnService}
}

// ColumnRequest represents the create/update column request body
type ColumnRequest struct {
	Title    string `json:"title"`
	Position int32  `json:"position"`
}

// CreateColumn handles POST /api/v1/boards/:id/columns
func (h *ColumnHandler) CreateColumn(c echo.Context) error {
	userID := middleware.GetUserID(c)
	boardID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid board ID", nil)
	}

	var req ColumnRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	column, err := h.columnService.CreateColumn(int32(boardID), userID, req.Title, req.Position)
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
		log.Error().Err(err).Int("board_id", boardID).Msg("Failed to create column")
		return NewInternalError(c, "Failed to create column")
	}

	log.Info().Int32("column_id", column.ID).Int("board_id", boardID).Msg("Column created")
	return c.JSON(http.StatusCreated, column)
}

// GetColumns handles GET /api/v1/boards/:id/columns
func (h *ColumnHandler) GetColumns(c echo.Context) error {
	userID := middleware.GetUserID(c)
	boardID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid board ID", nil)
	}

	columns, err := h.columnService.GetColumnsForBoard(int32(boardID), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrBoardNotFound) {
			return NewNotFoundError(c, "Board not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workbench")
		}
		log.Error().Err(err).Int("board_id", boardID).Msg("Failed to get columns")
		return NewInternalError(c, "Failed to get columns")
	}
	return c.JSON(http.StatusOK, columns)
}

// UpdateColumn handles PUT /api/v1/columns/:id
func (h *ColumnHandler) UpdateColumn(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid column ID", nil)
	}

	var req ColumnRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	column, err := h.columnService.UpdateColumn(int32(id), userID, req.Title, req.Position)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrColumnNotFound), errors.Is(err, domain.ErrNotFound):
			return NewNotFoundError(c, "Column not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Admin role required")
		case errors.Is(err, domain.ErrTitleRequired), errors.Is(err, domain.ErrTitleTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "title", Message: err.Error()},
			})
		}
		log.Error().Err(err).Int("column_id", id).Msg("Failed to update column")
		return NewInternalError(c, "Failed to update column")
	}

	log.Info().Int32("column_id", column.ID).Msg("Column updated")
	return c.JSON(http.StatusOK, column)
}

// DeleteColumn handles DELETE /api/v1/columns/:id
func (h *ColumnHandler) DeleteColumn(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid column ID", nil)
	}

	if err := h.columnService.DeleteColumn(int32(id), userID); err != nil {
		if errors.Is(err, domain.ErrColumnNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Column not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Admin role required")
		}
		log.Error().Err(err).Int("column_id", id).Msg("Failed to delete column")
		return NewInternalError(c, "Failed to delete column")
	}

	log.Info().Int("column_id", id).Msg("Column deleted")
	return c.NoContent(http.StatusNoContent)
}
