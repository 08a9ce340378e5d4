package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/orbitask/orbitask-backend/internal/domain"
	"github.com/orbitask/orbitask-backend/internal/middleware"
	"github.com/orbitask/orbitask-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// BoardHandler handles board-related HTTP requests
type BoardHandler struct {
	boardService *service.BoardService
}

// NewBoardHandler creates a new BoardHandler
func NewBoardHandler(boardService *service.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

// BoardRequest represents the create/update board request body
type BoardRequest struct {
	Name string `json:"name"`
}

// BoardResponse represents a board in API responses
type BoardResponse struct {
	ID          int32  `json:"id"`
	Name        string `json:"name"`
	WorkbenchID int32  `json:"workbenchId"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// CreateBoard handles POST /api/v1/workbenches/:id/boards
func (h *BoardHandler) CreateBoard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	workbenchID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workbench ID", nil)
	}

	var req BoardRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	board, err := h.boardService.CreateBoard(int32(workbenchID), userID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrWorkbenchNotFound):
			return NewNotFoundError(c, "Workbench not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Admin role required")
		case errors.Is(err, domain.ErrNameRequired), errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: err.Error()},
			})
		}
		log.Error().Err(err).Int("workbench_id", workbenchID).Msg("Failed to create board")
		return NewInternalError(c, "Failed to create board")
	}

	log.Info().Int32("board_id", board.ID).Int("workbench_id", workbenchID).Msg("Board created")
	return c.JSON(http.StatusCreated, toBoardResponse(board))
}

// GetBoards handles GET /api/v1/workbenches/:id/boards
func (h *BoardHandler) GetBoards(c echo.Context) error {
	userID := middleware.GetUserID(c)
	workbenchID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workbench ID", nil)
	}

	boards, err := h.boardService.GetBoardsForWorkbench(int32(workbenchID), userID)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workbench")
		}
		log.Error().Err(err).Int("workbench_id", workbenchID).Msg("Failed to get boards")
		return NewInternalError(c, "Failed to get boards")
	}

	response := make([]BoardResponse, len(boards))
	for i, b := range boards {
		response[i] = toBoardResponse(b)
	}
	return c.JSON(http.StatusOK, response)
}

// GetBoard handles GET /api/v1/boards/:id
func (h *BoardHandler) GetBoard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid board ID", nil)
	}

	board, err := h.boardService.GetBoard(int32(id), userID)
	if err != nil {
		if errors.Is(err, domain.ErrBoardNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Board not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workbench")
		}
		log.Error().Err(err).Int("board_id", id).Msg("Failed to get board")
		return NewInternalError(c, "Failed to get board")
	}
	return c.JSON(http.StatusOK, toBoardResponse(board))
}

// UpdateBoard handles PUT /api/v1/boards/:id
func (h *BoardHandler) UpdateBoard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid board ID", nil)
	}

	var req BoardRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	board, err := h.boardService.UpdateBoard(int32(id), userID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBoardNotFound), errors.Is(err, domain.ErrNotFound):
			return NewNotFoundError(c, "Board not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Admin role required")
		case errors.Is(err, domain.ErrNameRequired), errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: err.Error()},
			})
		}
		log.Error().Err(err).Int("board_id", id).Msg("Failed to update board")
		return NewInternalError(c, "Failed to update board")
	}

	log.Info().Int32("board_id", board.ID).Msg("Board updated")
	return c.JSON(http.StatusOK, toBoardResponse(board))
}

// DeleteBoard handles DELETE /api/v1/boards/:id
func (h *BoardHandler) DeleteBoard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid board ID", nil)
	}

	if err := h.boardService.DeleteBoard(int32(id), userID); err != nil {
		if errors.Is(err, domain.ErrBoardNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Board not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Admin role required")
		}
		log.Error().Err(err).Int("board_id", id).Msg("Failed to delete board")
		return NewInternalError(c, "Failed to delete board")
	}

	log.Info().Int("board_id", id).Msg("Board deleted")
	return c.NoContent(http.StatusNoContent)
}

// Helper function to convert domain.Board to BoardResponse
func toBoardResponse(b *domain.Board) BoardResponse {
	return BoardResponse{
		ID:          b.ID,
		Name:        b.Name,
		WorkbenchID: b.WorkbenchID,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   b.UpdatedAt.Format(time.RFC3339),
	}
}
