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

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// TaskRequest represents the create/update task request body
type TaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Position    int32      `json:"position"`
	DueDate     *time.Time `json:"dueDate"`
	ColumnID    int32      `json:"columnId"`
}

// CreateTask handles POST /api/v1/columns/:id/tasks
func (h *TaskHandler) CreateTask(c echo.Context) error {
	userID := middleware.GetUserID(c)
	columnID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid column ID", nil)
	}

	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	task, err := h.taskService.CreateTask(int32(columnID), userID, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
		DueDate:     req.DueDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrColumnNotFound), errors.Is(err, domain.ErrNotFound):
			return NewNotFoundError(c, "Column not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Not a member of this workbench")
		case errors.Is(err, domain.ErrTitleRequired), errors.Is(err, domain.ErrTitleTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "title", Message: err.Error()},
			})
		}
		log.Error().Err(err).Int("column_id", columnID).Msg("Failed to create task")
		return NewInternalError(c, "Failed to create task")
	}

	log.Info().Int32("task_id", task.ID).Int("column_id", columnID).Msg("Task created")
	return c.JSON(http.StatusCreated, task)
}

// GetTasks handles GET /api/v1/columns/:id/tasks
func (h *TaskHandler) GetTasks(c echo.Context) error {
	userID := middleware.GetUserID(c)
	columnID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid column ID", nil)
	}

	tasks, err := h.taskService.GetTasksForColumn(int32(columnID), userID)
	if err != nil {
		if errors.Is(err, domain.ErrColumnNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Column not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workbench")
		}
		log.Error().Err(err).Int("column_id", columnID).Msg("Failed to get tasks")
		return NewInternalError(c, "Failed to get tasks")
	}
	return c.JSON(http.StatusOK, tasks)
}

// GetTask handles GET /api/v1/tasks/:id
func (h *TaskHandler) GetTask(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid task ID", nil)
	}

	task, err := h.taskService.GetTask(int32(id), userID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Task not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workbench")
		}
		log.Error().Err(err).Int("task_id", id).Msg("Failed to get task")
		return NewInternalError(c, "Failed to get task")
	}
	return c.JSON(http.StatusOK, task)
}

// UpdateTask handles PUT /api/v1/tasks/:id
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid task ID", nil)
	}

	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	task, err := h.taskService.UpdateTask(int32(id), userID, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
		DueDate:     req.DueDate,
		ColumnID:    req.ColumnID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTaskNotFound), errors.Is(err, domain.ErrColumnNotFound), errors.Is(err, domain.ErrNotFound):
			return NewNotFoundError(c, "Task or column not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Not a member of this workbench")
		case errors.Is(err, domain.ErrTitleRequired), errors.Is(err, domain.ErrTitleTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "title", Message: err.Error()},
			})
		case errors.Is(err, domain.ErrCrossBoardMove):
			return NewValidationError(c, "Task cannot move to a column on a different board", []ValidationError{
				{Field: "columnId", Message: "Target column must be on the same board"},
			})
		}
		log.Error().Err(err).Int("task_id", id).Msg("Failed to update task")
		return NewInternalError(c, "Failed to update task")
	}

	log.Info().Int32("task_id", task.ID).Msg("Task updated")
	return c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/v1/tasks/:id
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid task ID", nil)
	}

	if err := h.taskService.DeleteTask(int32(id), userID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Task not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workbench")
		}
		log.Error().Err(err).Int("task_id", id).Msg("Failed to delete task")
		return NewInternalError(c, "Failed to delete task")
	}

	log.Info().Int("task_id", id).Msg("Task deleted")
	return c.NoContent(http.StatusNoContent)
}

// GetTaskTags handles GET /api/v1/tasks/:id/tags
func (h *TaskHandler) GetTaskTags(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid task ID", nil)
	}

	tags, err := h.taskService.GetTagsForTask(int32(id), userID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) || errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Task not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workbench")
		}
		log.Error().Err(err).Int("task_id", id).Msg("Failed to get task tags")
		return NewInternalError(c, "Failed to get task tags")
	}
	return c.JSON(http.StatusOK, tags)
}

// AttachTag handles POST /api/v1/tasks/:id/tags/:tagId
func (h *TaskHandler) AttachTag(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid task ID", nil)
	}
	tagID, err := strconv.Atoi(c.Param("tagId"))
	if err != nil {
		return NewValidationError(c, "Invalid tag ID", nil)
	}

	if err := h.taskService.AttachTag(int32(id), int32(tagID), userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrTaskNotFound), errors.Is(err, domain.ErrTagNotFound), errors.Is(err, domain.ErrNotFound):
			return NewNotFoundError(c, "Task or tag not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Not a member of this workbench")
		case errors.Is(err, domain.ErrTagBoardMismatch):
			return NewValidationError(c, "Tag belongs to a different board than the task", nil)
		}
		log.Error().Err(err).Int("task_id", id).Int("tag_id", tagID).Msg("Failed to attach tag")
		return NewInternalError(c, "Failed to attach tag")
	}

	return c.NoContent(http.StatusNoContent)
}

// DetachTag handles DELETE /api/v1/tasks/:id/tags/:tagId
func (h *TaskHandler) DetachTag(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid task ID", nil)
	}
	tagID, err := strconv.Atoi(c.Param("tagId"))
	if err != nil {
		return NewValidationError(c, "Invalid tag ID", nil)
	}

	if err := h.taskService.DetachTag(int32(id), int32(tagID), userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrTaskNotFound), errors.Is(err, domain.ErrTagNotFound), errors.Is(err, domain.ErrNotFound):
			return NewNotFoundError(c, "Task or tag not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Not a member of this workbench")
		}
		log.Error().Err(err).Int("task_id", id).Int("tag_id", tagID).Msg("Failed to detach tag")
		return NewInternalError(c, "Failed to detach tag")
	}

	return c.NoContent(http.StatusNoContent)
}
