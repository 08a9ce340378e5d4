package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/orbitask/orbitask-backend/internal/domain"
	"github.com/orbitask/orbitask-backend/internal/testutil"
)

type workbenchFixture struct {
	service       *WorkbenchService
	workbenchRepo *testutil.MockWorkbenchRepository
	userRepo      *testutil.MockUserRepository
}

func newWorkbenchFixture() *workbenchFixture {
	workbenchRepo := testutil.NewMockWorkbenchRepository()
	userRepo := testutil.NewMockUserRepository()
	access := NewAccessService(workbenchRepo, testutil.NewMockResolver())
	return &workbenchFixture{
		service:       NewWorkbenchService(workbenchRepo, userRepo, access),
		workbenchRepo: workbenchRepo,
		userRepo:      userRepo,
	}
}

func (f *workbenchFixture) addUser() uuid.UUID {
	id := uuid.New()
	f.userRepo.AddUser(&domain.User{ID: id, Auth0ID: "auth0|" + id.String(), Email: id.String() + "@example.com"})
	return id
}

func TestCreateWorkbench_CreatorBecomesOwner(t *testing.T) {
	f := newWorkbenchFixture()
	creator := f.addUser()

	wb, err := f.service.CreateWorkbench(creator, "Engineering")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if wb.OwnerID != creator {
		t.Errorf("Expected owner %s, got %s", creator, wb.OwnerID)
	}

	membership, err := f.workbenchRepo.GetMembership(wb.ID, creator)
	if err != nil {
		t.Fatalf("Expected owner membership row, got %v", err)
	}
	if membership.Role != domain.RoleOwner {
		t.Errorf("Expected owner role, got %s", membership.Role)
	}
}

func TestCreateWorkbench_EmptyNameRejected(t *testing.T) {
	f := newWorkbenchFixture()

	if _, err := f.service.CreateWorkbench(uuid.New(), "   "); !errors.Is(err, domain.ErrNameRequired) {
		t.Fatalf("Expected ErrNameRequired, got %v", err)
	}
}

func TestDeleteWorkbench_OwnerOnly(t *testing.T) {
	f := newWorkbenchFixture()
	owner := f.addUser()
	admin := f.addUser()

	wb, _ := f.service.CreateWorkbench(owner, "Engineering")
	f.workbenchRepo.AddMember(&domain.WorkbenchMember{WorkbenchID: wb.ID, UserID: admin, Role: domain.RoleAdmin})

	if err := f.service.DeleteWorkbench(wb.ID, admin); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for admin, got %v", err)
	}

	if err := f.service.DeleteWorkbench(wb.ID, owner); err != nil {
		t.Fatalf("Expected owner delete to succeed, got %v", err)
	}
	if _, err := f.workbenchRepo.GetByID(wb.ID); !errors.Is(err, domain.ErrWorkbenchNotFound) {
		t.Error("Expected workbench to be gone")
	}
}

func TestInviteMember_RequiresAdmin(t *testing.T) {
	f := newWorkbenchFixture()
	owner := f.addUser()
	member := f.addUser()
	target := f.addUser()

	wb, _ := f.service.CreateWorkbench(owner, "Engineering")
	f.workbenchRepo.AddMember(&domain.WorkbenchMember{WorkbenchID: wb.ID, UserID: member, Role: domain.RoleMember})

	if err := f.service.InviteMember(wb.ID, member, target, domain.RoleMember); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for member inviter, got %v", err)
	}

	if err := f.service.InviteMember(wb.ID, owner, target, domain.RoleMember); err != nil {
		t.Fatalf("Expected owner invite to succeed, got %v", err)
	}
}

func TestInviteMember_OwnerRoleRejected(t *testing.T) {
	f := newWorkbenchFixture()
	owner := f.addUser()
	target := f.addUser()

	wb, _ := f.service.CreateWorkbench(owner, "Engineering")

	if err := f.service.InviteMember(wb.ID, owner, target, domain.RoleOwner); !errors.Is(err, domain.ErrCannotInviteOwner) {
		t.Fatalf("Expected ErrCannotInviteOwner, got %v", err)
	}
}

func TestInviteMember_UnknownUserRejected(t *testing.T) {
	f := newWorkbenchFixture()
	owner := f.addUser()

	wb, _ := f.service.CreateWorkbench(owner, "Engineering")

	if err := f.service.InviteMember(wb.ID, owner, uuid.New(), domain.RoleMember); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestInviteMember_DuplicateRejected(t *testing.T) {
	f := newWorkbenchFixture()
	owner := f.addUser()
	target := f.addUser()

	wb, _ := f.service.CreateWorkbench(owner, "Engineering")

	if err := f.service.InviteMember(wb.ID, owner, target, domain.RoleMember); err != nil {
		t.Fatalf("Expected first invite to succeed, got %v", err)
	}
	if err := f.service.InviteMember(wb.ID, owner, target, domain.RoleAdmin); !errors.Is(err, domain.ErrMemberAlreadyExists) {
		t.Fatalf("Expected ErrMemberAlreadyExists, got %v", err)
	}
}

func TestUpdateMemberRole_SelfChangeRejected(t *testing.T) {
	f := newWorkbenchFixture()
	owner := f.addUser()
	admin := f.addUser()

	wb, _ := f.service.CreateWorkbench(owner, "Engineering")
	f.workbenchRepo.AddMember(&domain.WorkbenchMember{WorkbenchID: wb.ID, UserID: admin, Role: domain.RoleAdmin})

	if err := f.service.UpdateMemberRole(wb.ID, admin, admin, domain.RoleMember); !errors.Is(err, domain.ErrCannotChangeOwnRole) {
		t.Fatalf("Expected ErrCannotChangeOwnRole, got %v", err)
	}
}

func TestUpdateMemberRole_OwnerIsImmutable(t *testing.T) {
	f := newWorkbenchFixture()
	owner := f.addUser()
	admin := f.addUser()
	member := f.addUser()

	wb, _ := f.service.CreateWorkbench(owner, "Engineering")
	f.workbenchRepo.AddMember(&domain.WorkbenchMember{WorkbenchID: wb.ID, UserID: admin, Role: domain.RoleAdmin})
	f.workbenchRepo.AddMember(&domain.WorkbenchMember{WorkbenchID: wb.ID, UserID: member, Role: domain.RoleMember})

	// The owner role cannot be handed out through a role update.
	if err := f.service.UpdateMemberRole(wb.ID, admin, member, domain.RoleOwner); !errors.Is(err, domain.ErrCannotPromoteOwner) {
		t.Fatalf("Expected ErrCannotPromoteOwner, got %v", err)
	}

	// Nor can the owner's own role be touched.
	if err := f.service.UpdateMemberRole(wb.ID, admin, owner, domain.RoleMember); !errors.Is(err, domain.ErrCannotModifyOwner) {
		t.Fatalf("Expected ErrCannotModifyOwner, got %v", err)
	}
}

func TestUpdateMemberRole_PromoteToAdmin(t *testing.T) {
	f := newWorkbenchFixture()
	owner := f.addUser()
	member := f.addUser()

	wb, _ := f.service.CreateWorkbench(owner, "Engineering")
	f.workbenchRepo.AddMember(&domain.WorkbenchMember{WorkbenchID: wb.ID, UserID: member, Role: domain.RoleMember})

	if err := f.service.UpdateMemberRole(wb.ID, owner, member, domain.RoleAdmin); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	membership, _ := f.workbenchRepo.GetMembership(wb.ID, member)
	if membership.Role != domain.RoleAdmin {
		t.Errorf("Expected admin role, got %s", membership.Role)
	}
}

func TestRemoveMember_MemberMayOnlyLeave(t *testing.T) {
	f := newWorkbenchFixture()
	owner := f.addUser()
	memberA := f.addUser()
	memberB := f.addUser()

	wb, _ := f.service.CreateWorkbench(owner, "Engineering")
	f.workbenchRepo.AddMember(&domain.WorkbenchMember{WorkbenchID: wb.ID, UserID: memberA, Role: domain.RoleMember})
	f.workbenchRepo.AddMember(&domain.WorkbenchMember{WorkbenchID: wb.ID, UserID: memberB, Role: domain.RoleMember})

	if err := f.service.RemoveMember(wb.ID, memberA, memberB); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for member removing another member, got %v", err)
	}

	if err := f.service.RemoveMember(wb.ID, memberA, memberA); err != nil {
		t.Fatalf("Expected self-removal to succeed, got %v", err)
	}
	if _, err := f.workbenchRepo.GetMembership(wb.ID, memberA); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Error("Expected membership to be gone")
	}
}

func TestRemoveMember_AdminRemovesMember(t *testing.T) {
	f := newWorkbenchFixture()
	owner := f.addUser()
	admin := f.addUser()
	member := f.addUser()

	wb, _ := f.service.CreateWorkbench(owner, "Engineering")
	f.workbenchRepo.AddMember(&domain.WorkbenchMember{WorkbenchID: wb.ID, UserID: admin, Role: domain.RoleAdmin})
	f.workbenchRepo.AddMember(&domain.WorkbenchMember{WorkbenchID: wb.ID, UserID: member, Role: domain.RoleMember})

	if err := f.service.RemoveMember(wb.ID, admin, member); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestRemoveMember_OwnerRemovableOnlyBySelf(t *testing.T) {
	f := newWorkbenchFixture()
	owner := f.addUser()
	admin := f.addUser()

	wb, _ := f.service.CreateWorkbench(owner, "Engineering")
	f.workbenchRepo.AddMember(&domain.WorkbenchMember{WorkbenchID: wb.ID, UserID: admin, Role: domain.RoleAdmin})

	if err := f.service.RemoveMember(wb.ID, admin, owner); !errors.Is(err, domain.ErrCannotModifyOwner) {
		t.Fatalf("Expected ErrCannotModifyOwner, got %v", err)
	}
}

func TestRemoveMember_OwnerLeavePromotesAdmin(t *testing.T) {
	f := newWorkbenchFixture()
	owner := f.addUser()
	admin := f.addUser()

	wb, _ := f.service.CreateWorkbench(owner, "Engineering")
	f.workbenchRepo.AddMember(&domain.WorkbenchMember{WorkbenchID: wb.ID, UserID: admin, Role: domain.RoleAdmin})

	if err := f.service.RemoveMember(wb.ID, owner, owner); err != nil {
		t.Fatalf("Expected owner leave to succeed, got %v", err)
	}

	if _, err := f.workbenchRepo.GetMembership(wb.ID, owner); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Error("Expected old owner membership to be gone")
	}

	successor, err := f.workbenchRepo.GetMembership(wb.ID, admin)
	if err != nil {
		t.Fatalf("Expected successor membership, got %v", err)
	}
	if successor.Role != domain.RoleOwner {
		t.Errorf("Expected successor to be owner, got %s", successor.Role)
	}

	updated, _ := f.workbenchRepo.GetByID(wb.ID)
	if updated.OwnerID != admin {
		t.Errorf("Expected workbench owner column to point at successor")
	}
}

func TestRemoveMember_OwnerLeaveWithoutAdminRejected(t *testing.T) {
	f := newWorkbenchFixture()
	owner := f.addUser()
	member := f.addUser()

	wb, _ := f.service.CreateWorkbench(owner, "Engineering")
	f.workbenchRepo.AddMember(&domain.WorkbenchMember{WorkbenchID: wb.ID, UserID: member, Role: domain.RoleMember})

	if err := f.service.RemoveMember(wb.ID, owner, owner); !errors.Is(err, domain.ErrNoAdminForSuccession) {
		t.Fatalf("Expected ErrNoAdminForSuccession, got %v", err)
	}

	// Nothing changed: the owner is still the owner.
	membership, err := f.workbenchRepo.GetMembership(wb.ID, owner)
	if err != nil {
		t.Fatalf("Expected owner membership to survive, got %v", err)
	}
	if membership.Role != domain.RoleOwner {
		t.Errorf("Expected owner role, got %s", membership.Role)
	}
}
