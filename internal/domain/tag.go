package domain

// Tag is a board-scoped label. Its board is fixed at creation; a tag never
// moves between boards.
type Tag struct {
	ID      int32  `json:"id"`
	Title   string `json:"title"`
	BoardID int32  `json:"boardId"`
}

// TagRepository defines the interface for tag persistence operations.
type TagRepository interface {
	GetByID(id int32) (*Tag, error)
	GetAllByBoard(boardID int32) ([]*Tag, error)
	GetAllForTask(taskID int32) ([]*Tag, error)
	Create(tag *Tag) (*Tag, error)
	Update(id int32, title string) (*Tag, error)
	Delete(id int32) error
}
