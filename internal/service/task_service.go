package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/orbitask/orbitask-backend/internal/domain"
)

// TaskService handles task business logic. Task mutation is deliberately open
// to every workbench member, unlike board-structure mutation.
type TaskService struct {
	taskRepo   domain.TaskRepository
	columnRepo domain.ColumnRepository
	tagRepo    domain.TagRepository
	access     *AccessService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo domain.TaskRepository, columnRepo domain.ColumnRepository, tagRepo domain.TagRepository, access *AccessService) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		columnRepo: columnRepo,
		tagRepo:    tagRepo,
		access:     access,
	}
}

// TaskInput holds the caller-editable task fields
type TaskInput struct {
	Title       string
	Description string
	Position    int32
	DueDate     *time.Time
	ColumnID    int32
}

// GetTask retrieves a task the caller can see
func (s *TaskService) GetTask(id int32, callerID uuid.UUID) (*domain.TaskItem, error) {
	task, err := s.taskRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.access.ResolveAndRequire(domain.KindTask, id, callerID, domain.RoleMember); err != nil {
		return nil, err
	}
	return task, nil
}

// GetTasksForColumn retrieves a column's tasks in position order
func (s *TaskService) GetTasksForColumn(columnID int32, callerID uuid.UUID) ([]*domain.TaskItem, error) {
	if _, _, err := s.access.ResolveAndRequire(domain.KindColumn, columnID, callerID, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.taskRepo.GetAllByColumn(columnID)
}

// CreateTask creates a task in a column; any workbench member may do so. The
// parent column is validated to exist and the FK is stamped from it.
func (s *TaskService) CreateTask(columnID int32, callerID uuid.UUID, input TaskInput) (*domain.TaskItem, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}
	column, err := s.columnRepo.GetByID(columnID)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.access.ResolveAndRequire(domain.KindColumn, columnID, callerID, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.taskRepo.Create(&domain.TaskItem{
		Title:       title,
		Description: input.Description,
		Position:    input.Position,
		DueDate:     input.DueDate,
		ColumnID:    column.ID,
	})
}

// UpdateTask updates a task; any workbench member may do so. A task may move
// to another column only when that column sits on the same board; a
// cross-board move is a validation failure, not an authorization one.
func (s *TaskService) UpdateTask(id int32, callerID uuid.UUID, input TaskInput) (*domain.TaskItem, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}
	existing, err := s.taskRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.access.ResolveAndRequire(domain.KindTask, id, callerID, domain.RoleMember); err != nil {
		return nil, err
	}

	columnID := existing.ColumnID
	if input.ColumnID != 0 && input.ColumnID != existing.ColumnID {
		current, err := s.columnRepo.GetByID(existing.ColumnID)
		if err != nil {
			return nil, err
		}
		target, err := s.columnRepo.GetByID(input.ColumnID)
		if err != nil {
			return nil, err
		}
		if target.BoardID != current.BoardID {
			return nil, domain.ErrCrossBoardMove
		}
		columnID = target.ID
	}

	return s.taskRepo.Update(&domain.TaskItem{
		ID:          id,
		Title:       title,
		Description: input.Description,
		Position:    input.Position,
		DueDate:     input.DueDate,
		ColumnID:    columnID,
	})
}

// DeleteTask removes a task; any workbench member may do so
func (s *TaskService) DeleteTask(id int32, callerID uuid.UUID) error {
	if _, _, err := s.access.ResolveAndRequire(domain.KindTask, id, callerID, domain.RoleMember); err != nil {
		return err
	}
	return s.taskRepo.Delete(id)
}

// GetTagsForTask retrieves the tags attached to a task
func (s *TaskService) GetTagsForTask(taskID int32, callerID uuid.UUID) ([]*domain.Tag, error) {
	if _, _, err := s.access.ResolveAndRequire(domain.KindTask, taskID, callerID, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.tagRepo.GetAllForTask(taskID)
}

// AttachTag links a tag to a task. The tag must live on the same board as the
// task's column; attaching an already-attached tag is a no-op.
func (s *TaskService) AttachTag(taskID, tagID int32, callerID uuid.UUID) error {
	task, err := s.taskRepo.GetByID(taskID)
	if err != nil {
		return err
	}
	if _, _, err := s.access.ResolveAndRequire(domain.KindTask, taskID, callerID, domain.RoleMember); err != nil {
		return err
	}
	tag, err := s.tagRepo.GetByID(tagID)
	if err != nil {
		return err
	}
	column, err := s.columnRepo.GetByID(task.ColumnID)
	if err != nil {
		return err
	}
	if tag.BoardID != column.BoardID {
		return domain.ErrTagBoardMismatch
	}
	return s.taskRepo.AttachTag(taskID, tagID)
}

// DetachTag removes a tag link from a task
func (s *TaskService) DetachTag(taskID, tagID int32, callerID uuid.UUID) error {
	if _, err := s.taskRepo.GetByID(taskID); err != nil {
		return err
	}
	if _, _, err := s.access.ResolveAndRequire(domain.KindTask, taskID, callerID, domain.RoleMember); err != nil {
		return err
	}
	return s.taskRepo.DetachTag(taskID, tagID)
}
