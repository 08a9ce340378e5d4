package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/orbitask/orbitask-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

const userSearchLimit = 20

// ProfileService handles profile-related business logic
type ProfileService struct {
	userRepo domain.UserRepository
	access   *AccessService
	avatars  *AvatarService
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo domain.UserRepository, access *AccessService, avatars *AvatarService) *ProfileService {
	return &ProfileService{
		userRepo: userRepo,
		access:   access,
		avatars:  avatars,
	}
}

// GetProfile retrieves a user's profile by ID
func (s *ProfileService) GetProfile(userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateDisplayName updates the caller's display name
func (s *ProfileService) UpdateDisplayName(userID uuid.UUID, displayName string) (*domain.User, error) {
	displayName, err := validateName(displayName)
	if err != nil {
		return nil, err
	}
	return s.userRepo.UpdateDisplayName(userID, displayName)
}

// SetAvatar processes and stores a new avatar image for the caller and
// records its object path on the profile. A previous avatar is removed
// from storage first.
func (s *ProfileService) SetAvatar(ctx context.Context, userID uuid.UUID, data []byte, filename string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if user.AvatarURL != nil {
		if err := s.avatars.Delete(ctx, *user.AvatarURL); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to remove previous avatar")
		}
	}

	objectPath, err := s.avatars.ProcessAndUpload(ctx, userID, data, filename)
	if err != nil {
		return nil, err
	}

	return s.userRepo.UpdateAvatarURL(userID, &objectPath)
}

// ClearAvatar removes the caller's avatar from storage and the profile
func (s *ProfileService) ClearAvatar(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if user.AvatarURL != nil {
		if err := s.avatars.Delete(ctx, *user.AvatarURL); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to remove avatar object")
		}
	}

	return s.userRepo.UpdateAvatarURL(userID, nil)
}

// ResolveAvatarURL converts a stored avatar object path into a temporary
// signed URL. Returns an empty string when the user has no avatar.
func (s *ProfileService) ResolveAvatarURL(ctx context.Context, user *domain.User) (string, error) {
	if user.AvatarURL == nil || !s.avatars.IsEnabled() {
		return "", nil
	}
	return s.avatars.ResolveURL(ctx, *user.AvatarURL)
}

// SearchWorkbenchUsers finds members of a workbench matching the query.
// The caller must be a member of the workbench.
func (s *ProfileService) SearchWorkbenchUsers(workbenchID int32, requesterID uuid.UUID, query string) ([]*domain.User, error) {
	if _, err := s.access.Require(workbenchID, requesterID, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.userRepo.SearchInWorkbench(workbenchID, query, userSearchLimit)
}

// GetUsersByIDs returns the users for a batch of IDs, used to hydrate
// member lists. The caller must be a member of the workbench.
func (s *ProfileService) GetUsersByIDs(workbenchID int32, requesterID uuid.UUID, ids []uuid.UUID) ([]*domain.User, error) {
	if _, err := s.access.Require(workbenchID, requesterID, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.userRepo.GetByIDs(ids)
}
