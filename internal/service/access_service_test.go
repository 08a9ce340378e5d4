package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/orbitask/orbitask-backend/internal/domain"
	"github.com/orbitask/orbitask-backend/internal/testutil"
)

func newAccessFixture() (*AccessService, *testutil.MockWorkbenchRepository, *testutil.MockResolver) {
	workbenchRepo := testutil.NewMockWorkbenchRepository()
	resolver := testutil.NewMockResolver()
	return NewAccessService(workbenchRepo, resolver), workbenchRepo, resolver
}

func TestRequire_NonMemberIsForbidden(t *testing.T) {
	access, workbenchRepo, _ := newAccessFixture()

	owner := uuid.New()
	wb, _ := workbenchRepo.Create(&domain.Workbench{Name: "Team", OwnerID: owner})

	_, err := access.Require(wb.ID, uuid.New(), domain.RoleMember)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}
}

func TestRequire_RoleBelowFloorIsForbidden(t *testing.T) {
	access, workbenchRepo, _ := newAccessFixture()

	owner := uuid.New()
	member := uuid.New()
	wb, _ := workbenchRepo.Create(&domain.Workbench{Name: "Team", OwnerID: owner})
	workbenchRepo.AddMember(&domain.WorkbenchMember{WorkbenchID: wb.ID, UserID: member, Role: domain.RoleMember})

	if _, err := access.Require(wb.ID, member, domain.RoleAdmin); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for member below admin floor, got %v", err)
	}

	if _, err := access.Require(wb.ID, member, domain.RoleMember); err != nil {
		t.Fatalf("Expected member floor to pass, got %v", err)
	}
}

func TestRequire_OwnerPassesEveryFloor(t *testing.T) {
	access, workbenchRepo, _ := newAccessFixture()

	owner := uuid.New()
	wb, _ := workbenchRepo.Create(&domain.Workbench{Name: "Team", OwnerID: owner})

	for _, floor := range []domain.Role{domain.RoleMember, domain.RoleAdmin, domain.RoleOwner} {
		membership, err := access.Require(wb.ID, owner, floor)
		if err != nil {
			t.Fatalf("Expected owner to pass %s floor, got %v", floor, err)
		}
		if membership.Role != domain.RoleOwner {
			t.Errorf("Expected owner membership, got %s", membership.Role)
		}
	}
}

func TestResolveAndRequire_UnknownEntityIsNotFound(t *testing.T) {
	access, workbenchRepo, _ := newAccessFixture()

	owner := uuid.New()
	workbenchRepo.Create(&domain.Workbench{Name: "Team", OwnerID: owner})

	// Resolution fails before any membership check happens, so even a
	// total outsider learns only that the entity does not exist.
	_, _, err := access.ResolveAndRequire(domain.KindBoard, 42, uuid.New(), domain.RoleMember)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestResolveAndRequire_ResolvesOwningWorkbench(t *testing.T) {
	access, workbenchRepo, resolver := newAccessFixture()

	owner := uuid.New()
	wb, _ := workbenchRepo.Create(&domain.Workbench{Name: "Team", OwnerID: owner})
	resolver.Map(domain.KindBoard, 7, wb.ID)

	workbenchID, membership, err := access.ResolveAndRequire(domain.KindBoard, 7, owner, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if workbenchID != wb.ID {
		t.Errorf("Expected workbench %d, got %d", wb.ID, workbenchID)
	}
	if membership.Role != domain.RoleOwner {
		t.Errorf("Expected owner role, got %s", membership.Role)
	}
}

func TestResolveAndRequire_ExistingEntityOutsiderIsForbidden(t *testing.T) {
	access, workbenchRepo, resolver := newAccessFixture()

	owner := uuid.New()
	wb, _ := workbenchRepo.Create(&domain.Workbench{Name: "Team", OwnerID: owner})
	resolver.Map(domain.KindTask, 3, wb.ID)

	_, _, err := access.ResolveAndRequire(domain.KindTask, 3, uuid.New(), domain.RoleMember)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}
}
