package service

import (
	"github.com/google/uuid"
	"github.com/orbitask/orbitask-backend/internal/domain"
)

// BoardService handles board business logic. Board structure mutation is
// restricted to admins and owners; reads require membership only.
type BoardService struct {
	boardRepo domain.BoardRepository
	access    *AccessService
}

// NewBoardService creates a new BoardService
func NewBoardService(boardRepo domain.BoardRepository, access *AccessService) *BoardService {
	return &BoardService{boardRepo: boardRepo, access: access}
}

// GetBoard retrieves a board the caller can see
func (s *BoardService) GetBoard(id int32, callerID uuid.UUID) (*domain.Board, error) {
	board, err := s.boardRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Require(board.WorkbenchID, callerID, domain.RoleMember); err != nil {
		return nil, err
	}
	return board, nil
}

// GetBoardsForWorkbench retrieves all boards of a workbench
func (s *BoardService) GetBoardsForWorkbench(workbenchID int32, callerID uuid.UUID) ([]*domain.Board, error) {
	if _, err := s.access.Require(workbenchID, callerID, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.boardRepo.GetAllByWorkbench(workbenchID)
}

// CreateBoard creates a board under a workbench; requires admin or owner
func (s *BoardService) CreateBoard(workbenchID int32, callerID uuid.UUID, name string) (*domain.Board, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Require(workbenchID, callerID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.boardRepo.Create(&domain.Board{
		Name:        name,
		WorkbenchID: workbenchID,
	})
}

// UpdateBoard renames a board; requires admin or owner
func (s *BoardService) UpdateBoard(id int32, callerID uuid.UUID, name string) (*domain.Board, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.access.ResolveAndRequire(domain.KindBoard, id, callerID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.boardRepo.Update(id, name)
}

// DeleteBoard removes a board and everything under it; requires admin or
// owner
func (s *BoardService) DeleteBoard(id int32, callerID uuid.UUID) error {
	if _, _, err := s.access.ResolveAndRequire(domain.KindBoard, id, callerID, domain.RoleAdmin); err != nil {
		return err
	}
	return s.boardRepo.Delete(id)
}
