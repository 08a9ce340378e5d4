package service

import (
	"github.com/google/uuid"
	"github.com/orbitask/orbitask-backend/internal/domain"
)

// TagService handles tag business logic. A tag's board is fixed at creation.
type TagService struct {
	tagRepo   domain.TagRepository
	boardRepo domain.BoardRepository
	access    *AccessService
}

// NewTagService creates a new TagService
func NewTagService(tagRepo domain.TagRepository, boardRepo domain.BoardRepository, access *AccessService) *TagService {
	return &TagService{
		tagRepo:   tagRepo,
		boardRepo: boardRepo,
		access:    access,
	}
}

// GetTag retrieves a tag the caller can see
func (s *TagService) GetTag(id int32, callerID uuid.UUID) (*domain.Tag, error) {
	tag, err := s.tagRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.access.ResolveAndRequire(domain.KindTag, id, callerID, domain.RoleMember); err != nil {
		return nil, err
	}
	return tag, nil
}

// GetTagsForBoard retrieves a board's tags
func (s *TagService) GetTagsForBoard(boardID int32, callerID uuid.UUID) ([]*domain.Tag, error) {
	if _, _, err := s.access.ResolveAndRequire(domain.KindBoard, boardID, callerID, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.tagRepo.GetAllByBoard(boardID)
}

// CreateTag creates a tag on a board; requires admin or owner
func (s *TagService) CreateTag(boardID int32, callerID uuid.UUID, title string) (*domain.Tag, error) {
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
	return s.tagRepo.Create(&domain.Tag{
		Title:   title,
		BoardID: board.ID,
	})
}

// UpdateTag retitles a tag; requires admin or owner. The board FK never
// changes.
func (s *TagService) UpdateTag(id int32, callerID uuid.UUID, title string) (*domain.Tag, error) {
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.access.ResolveAndRequire(domain.KindTag, id, callerID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.tagRepo.Update(id, title)
}

// DeleteTag removes a tag and its task links; requires admin or owner
func (s *TagService) DeleteTag(id int32, callerID uuid.UUID) error {
	if _, _, err := s.access.ResolveAndRequire(domain.KindTag, id, callerID, domain.RoleAdmin); err != nil {
		return err
	}
	return s.tagRepo.Delete(id)
}
