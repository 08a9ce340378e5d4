package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/orbitask/orbitask-backend/internal/domain"
)

// ColumnService handles column business logic
type ColumnService struct {
	columnRepo domain.ColumnRepository
	boardRepo  domain.BoardRepository
	access     *AccessService
}

// NewColumnService creates a new ColumnService
func NewColumnService(columnRepo domain.ColumnRepository, boardRepo domain.BoardRepository, access *AccessService) *ColumnService {
	return &ColumnService{
		columnRepo: columnRepo,
		boardRepo:  boardRepo,
		access:     access,
	}
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", domain.ErrTitleRequired
	}
	if len(title) > domain.MaxTitleLength {
		return "", domain.ErrTitleTooLong
	}
	return title, nil
}

// GetColumn retrieves a column the caller can see
func (s *ColumnService) GetColumn(id int32, callerID uuid.UUID) (*domain.Column, error) {
	column, err := s.columnRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.access.ResolveAndRequire(domain.KindColumn, id, callerID, domain.RoleMember); err != nil {
		return nil, err
	}
	return column, nil
}

// GetColumnsForBoard retrieves a board's columns in position order
func (s *ColumnService) GetColumnsForBoard(boardID int32, callerID uuid.UUID) ([]*domain.Column, error) {
	if _, _, err := s.access.ResolveAndRequire(domain.KindBoard, boardID, callerID, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.columnRepo.GetAllByBoard(boardID)
}

// CreateColumn creates a column on a board; requires admin or owner. The
// parent board is validated to exist before insert.
func (s *ColumnService) CreateColumn(boardID int32, callerID uuid.UUID, title string, position int32) (*domain.Column, error) {
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}
	board, err := s.boardRepo.GetByID(boardID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Require(board.WorkbenchID, callerID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.columnRepo.Create(&domain.Column{
		Title:    title,
		Position: position,
		BoardID:  board.ID,
	})
}

// UpdateColumn changes a column's title and position; requires admin or
// owner. The board FK cannot change.
func (s *ColumnService) UpdateColumn(id int32, callerID uuid.UUID, title string, position int32) (*domain.Column, error) {
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}
	existing, err := s.columnRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.access.ResolveAndRequire(domain.KindColumn, id, callerID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.columnRepo.Update(&domain.Column{
		ID:       id,
		Title:    title,
		Position: position,
		BoardID:  existing.BoardID,
	})
}

// DeleteColumn removes a column with its tasks; requires admin or owner
func (s *ColumnService) DeleteColumn(id int32, callerID uuid.UUID) error {
	if _, _, err := s.access.ResolveAndRequire(domain.KindColumn, id, callerID, domain.RoleAdmin); err != nil {
		return err
	}
	return s.columnRepo.Delete(id)
}
