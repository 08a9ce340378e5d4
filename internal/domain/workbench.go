package domain

import (
	"time"

	"github.com/google/uuid"
)

// Workbench is the tenant root. Every board, chat, and their descendants
// belong to exactly one workbench.
type Workbench struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WorkbenchMember is the (workbench, user, role) relation granting access.
type WorkbenchMember struct {
	WorkbenchID int32     `json:"workbenchId"`
	UserID      uuid.UUID `json:"userId"`
	Role        Role      `json:"role"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// WorkbenchRepository defines the interface for workbench and membership
// persistence. Create inserts the workbench and the creator's owner
// membership in one transaction; Delete cascades to the whole hierarchy.
type WorkbenchRepository interface {
	GetByID(id int32) (*Workbench, error)
	GetAllForUser(userID uuid.UUID) ([]*Workbench, error)
	Create(workbench *Workbench) (*Workbench, error)
	Update(id int32, name string) (*Workbench, error)
	Delete(id int32) error

	GetMembership(workbenchID int32, userID uuid.UUID) (*WorkbenchMember, error)
	ListMembers(workbenchID int32) ([]*WorkbenchMember, error)
	AddMember(member *WorkbenchMember) error
	UpdateMemberRole(workbenchID int32, userID uuid.UUID, role Role) error
	RemoveMember(workbenchID int32, userID uuid.UUID) error

	// TransferOwnership promotes newOwner to owner, removes the departing
	// owner's membership, and repoints the workbench owner column, all in
	// one transaction.
	TransferOwnership(workbenchID int32, oldOwner, newOwner uuid.UUID) error
}
