package domain

import "time"

// Board is a project board under a workbench.
type Board struct {
	ID          int32     `json:"id"`
	Name        string    `json:"name"`
	WorkbenchID int32     `json:"workbenchId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BoardRepository defines the interface for board persistence operations.
// Delete removes the board's columns, tasks, task-tag links, and tags in one
// transaction before the board row itself.
type BoardRepository interface {
	GetByID(id int32) (*Board, error)
	GetAllByWorkbench(workbenchID int32) ([]*Board, error)
	Create(board *Board) (*Board, error)
	Update(id int32, name string) (*Board, error)
	Delete(id int32) error
}
