package domain

import "time"

// TaskItem is a task in a column. Board and workbench are never stored on the
// task; they are derived by joining column to board.
type TaskItem struct {
	ID          int32      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Position    int32      `json:"position"`
	CreatedOn   time.Time  `json:"createdOn"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	ColumnID    int32      `json:"columnId"`
}

// TaskRepository defines the interface for task persistence operations.
type TaskRepository interface {
	GetByID(id int32) (*TaskItem, error)
	GetAllByColumn(columnID int32) ([]*TaskItem, error)
	Create(task *TaskItem) (*TaskItem, error)
	Update(task *TaskItem) (*TaskItem, error)
	Delete(id int32) error

	// AttachTag links a tag to a task. Attaching an already-attached tag is
	// a no-op; the link table keeps at most one row per pair.
	AttachTag(taskID, tagID int32) error
	DetachTag(taskID, tagID int32) error
}
