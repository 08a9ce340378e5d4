package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/orbitask/orbitask-backend/internal/domain"
)

// WorkbenchService handles workbench and membership business logic
type WorkbenchService struct {
	workbenchRepo domain.WorkbenchRepository
	userRepo      domain.UserRepository
	access        *AccessService
}

// NewWorkbenchService creates a new WorkbenchService
func NewWorkbenchService(workbenchRepo domain.WorkbenchRepository, userRepo domain.UserRepository, access *AccessService) *WorkbenchService {
	return &WorkbenchService{
		workbenchRepo: workbenchRepo,
		userRepo:      userRepo,
		access:        access,
	}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}

// GetWorkbench retrieves a workbench the caller is a member of
func (s *WorkbenchService) GetWorkbench(id int32, callerID uuid.UUID) (*domain.Workbench, error) {
	workbench, err := s.workbenchRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Require(id, callerID, domain.RoleMember); err != nil {
		return nil, err
	}
	return workbench, nil
}

// GetWorkbenchesForUser retrieves every workbench the caller belongs to
func (s *WorkbenchService) GetWorkbenchesForUser(callerID uuid.UUID) ([]*domain.Workbench, error) {
	return s.workbenchRepo.GetAllForUser(callerID)
}

// CreateWorkbench creates a workbench; the caller becomes its owner in the
// same transaction
func (s *WorkbenchService) CreateWorkbench(callerID uuid.UUID, name string) (*domain.Workbench, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	return s.workbenchRepo.Create(&domain.Workbench{
		Name:    name,
		OwnerID: callerID,
	})
}

// UpdateWorkbench renames a workbench; requires admin or owner
func (s *WorkbenchService) UpdateWorkbench(id int32, callerID uuid.UUID, name string) (*domain.Workbench, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if _, err := s.workbenchRepo.GetByID(id); err != nil {
		return nil, err
	}
	if _, err := s.access.Require(id, callerID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.workbenchRepo.Update(id, name)
}

// DeleteWorkbench removes a workbench with its entire hierarchy; owner only
func (s *WorkbenchService) DeleteWorkbench(id int32, callerID uuid.UUID) error {
	if _, err := s.workbenchRepo.GetByID(id); err != nil {
		return err
	}
	membership, err := s.access.Require(id, callerID, domain.RoleMember)
	if err != nil {
		return err
	}
	if membership.Role != domain.RoleOwner {
		return domain.ErrForbidden
	}
	return s.workbenchRepo.Delete(id)
}

// ListMembers retrieves all members of a workbench the caller belongs to
func (s *WorkbenchService) ListMembers(workbenchID int32, callerID uuid.UUID) ([]*domain.WorkbenchMember, error) {
	if _, err := s.workbenchRepo.GetByID(workbenchID); err != nil {
		return nil, err
	}
	if _, err := s.access.Require(workbenchID, callerID, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.workbenchRepo.ListMembers(workbenchID)
}

// InviteMember adds a user to the workbench. Requires admin or owner; the
// invited role may be admin or member but never owner. A duplicate invite is
// rejected, not silently duplicated.
func (s *WorkbenchService) InviteMember(workbenchID int32, callerID, targetID uuid.UUID, role domain.Role) error {
	if _, err := s.workbenchRepo.GetByID(workbenchID); err != nil {
		return err
	}
	if _, err := s.access.Require(workbenchID, callerID, domain.RoleAdmin); err != nil {
		return err
	}

	if !role.IsValid() {
		return domain.ErrInvalidRole
	}
	if role == domain.RoleOwner {
		return domain.ErrCannotInviteOwner
	}
	if _, err := s.userRepo.GetByID(targetID); err != nil {
		return err
	}

	_, err := s.workbenchRepo.GetMembership(workbenchID, targetID)
	if err == nil {
		return domain.ErrMemberAlreadyExists
	}
	if !errors.Is(err, domain.ErrMemberNotFound) {
		return err
	}

	return s.workbenchRepo.AddMember(&domain.WorkbenchMember{
		WorkbenchID: workbenchID,
		UserID:      targetID,
		Role:        role,
	})
}

// UpdateMemberRole changes a member's role. Requires admin or owner; neither
// the target's current role nor the new role may be owner, and a caller may
// not change their own role.
func (s *WorkbenchService) UpdateMemberRole(workbenchID int32, callerID, targetID uuid.UUID, role domain.Role) error {
	if _, err := s.workbenchRepo.GetByID(workbenchID); err != nil {
		return err
	}
	if _, err := s.access.Require(workbenchID, callerID, domain.RoleAdmin); err != nil {
		return err
	}

	if callerID == targetID {
		return domain.ErrCannotChangeOwnRole
	}
	if !role.IsValid() {
		return domain.ErrInvalidRole
	}
	if role == domain.RoleOwner {
		return domain.ErrCannotPromoteOwner
	}

	target, err := s.workbenchRepo.GetMembership(workbenchID, targetID)
	if err != nil {
		return err
	}
	if target.Role == domain.RoleOwner {
		return domain.ErrCannotModifyOwner
	}

	return s.workbenchRepo.UpdateMemberRole(workbenchID, targetID, role)
}

// RemoveMember removes a member from the workbench.
//
// A plain member may only remove themself (leave). Admins and owners may
// remove any non-owner. The owner row can only be removed by the owner
// leaving, which promotes an admin to owner in the same transaction; with no
// admin present the leave is rejected and nothing changes.
func (s *WorkbenchService) RemoveMember(workbenchID int32, callerID, targetID uuid.UUID) error {
	if _, err := s.workbenchRepo.GetByID(workbenchID); err != nil {
		return err
	}
	caller, err := s.access.Require(workbenchID, callerID, domain.RoleMember)
	if err != nil {
		return err
	}
	target, err := s.workbenchRepo.GetMembership(workbenchID, targetID)
	if err != nil {
		return err
	}

	if target.Role == domain.RoleOwner {
		// Only the owner themself may leave, via succession.
		if callerID != targetID {
			return domain.ErrCannotModifyOwner
		}
		return s.succeedOwner(workbenchID, targetID)
	}

	if caller.Role == domain.RoleMember && callerID != targetID {
		return domain.ErrForbidden
	}

	return s.workbenchRepo.RemoveMember(workbenchID, targetID)
}

// succeedOwner finds an admin to promote and transfers ownership atomically
func (s *WorkbenchService) succeedOwner(workbenchID int32, owner uuid.UUID) error {
	members, err := s.workbenchRepo.ListMembers(workbenchID)
	if err != nil {
		return err
	}

	var successor *domain.WorkbenchMember
	for _, m := range members {
		if m.Role == domain.RoleAdmin {
			successor = m
			break
		}
	}
	if successor == nil {
		return domain.ErrNoAdminForSuccession
	}

	return s.workbenchRepo.TransferOwnership(workbenchID, owner, successor.UserID)
}
