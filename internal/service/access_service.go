package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/orbitask/orbitask-backend/internal/domain"
)

// AccessService decides whether a caller may act on a resource. It composes
// the membership store with the hierarchy resolver: the true owning workbench
// for any nested entity is derived from persisted state, never taken from the
// request.
//
// Existence precedes authorization: a broken resolution chain is ErrNotFound,
// an existing workbench without membership is ErrForbidden.
type AccessService struct {
	workbenchRepo domain.WorkbenchRepository
	resolver      domain.WorkbenchResolver
}

// NewAccessService creates a new AccessService
func NewAccessService(workbenchRepo domain.WorkbenchRepository, resolver domain.WorkbenchResolver) *AccessService {
	return &AccessService{
		workbenchRepo: workbenchRepo,
		resolver:      resolver,
	}
}

// Require checks that userID is a member of workbenchID with at least the
// floor role and returns the membership
func (s *AccessService) Require(workbenchID int32, userID uuid.UUID, floor domain.Role) (*domain.WorkbenchMember, error) {
	membership, err := s.workbenchRepo.GetMembership(workbenchID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	if !membership.Role.AtLeast(floor) {
		return nil, domain.ErrForbidden
	}
	return membership, nil
}

// ResolveAndRequire resolves the workbench owning the entity, then checks the
// caller's membership against the floor role. Returns the resolved workbench
// id so callers never re-derive it.
func (s *AccessService) ResolveAndRequire(kind domain.EntityKind, id int32, userID uuid.UUID, floor domain.Role) (int32, *domain.WorkbenchMember, error) {
	workbenchID, err := s.resolver.ResolveWorkbench(kind, id)
	if err != nil {
		return 0, nil, err
	}
	membership, err := s.Require(workbenchID, userID, floor)
	if err != nil {
		return 0, nil, err
	}
	return workbenchID, membership, nil
}
