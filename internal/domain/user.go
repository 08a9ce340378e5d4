package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user in the system
type User struct {
	ID          uuid.UUID `json:"id"`
	Auth0ID     string    `json:"auth0Id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"displayName"`
	AvatarURL   *string   `json:"avatarUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	GetByID(id uuid.UUID) (*User, error)
	GetByIDs(ids []uuid.UUID) ([]*User, error)
	GetByAuth0ID(auth0ID string) (*User, error)
	CreateOrGetByAuth0ID(auth0ID, email string, displayName, avatarURL *string) (*User, error)
	UpdateDisplayName(id uuid.UUID, displayName string) (*User, error)
	UpdateAvatarURL(id uuid.UUID, avatarURL *string) (*User, error)
	SearchInWorkbench(workbenchID int32, query string, limit int32) ([]*User, error)
}
