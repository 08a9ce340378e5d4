package domain

// Column is an ordered lane on a board. Its workbench is never stored and is
// always derived through the board.
type Column struct {
	ID       int32  `json:"id"`
	Title    string `json:"title"`
	Position int32  `json:"position"`
	BoardID  int32  `json:"boardId"`
}

// ColumnRepository defines the interface for column persistence operations.
// Delete removes the column's tasks (and their tag links) in one transaction.
type ColumnRepository interface {
	GetByID(id int32) (*Column, error)
	GetAllByBoard(boardID int32) ([]*Column, error)
	Create(column *Column) (*Column, error)
	Update(column *Column) (*Column, error)
	Delete(id int32) error
}
