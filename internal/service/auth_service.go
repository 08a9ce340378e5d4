package service

import (
	"github.com/google/uuid"
	"github.com/orbitask/orbitask-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// AuthService handles authentication-related business logic
type AuthService struct {
	userRepo domain.UserRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// ProvisionUser creates the local user record on first login and returns
// the existing one afterwards. The Auth0 subject is the stable identity.
func (s *AuthService) ProvisionUser(auth0ID, email string, displayName *string) (*domain.User, error) {
	user, err := s.userRepo.CreateOrGetByAuth0ID(auth0ID, email, displayName, nil)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to create or get user")
		return nil, err
	}
	return user, nil
}

// ProvisionUserID provisions the user for an Auth0 subject and returns just
// the local ID. Satisfies the auth middleware's UserProvider.
func (s *AuthService) ProvisionUserID(auth0ID, email string, displayName *string) (uuid.UUID, error) {
	user, err := s.ProvisionUser(auth0ID, email, displayName)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}

// GetUserByAuth0ID retrieves a user by their Auth0 ID
func (s *AuthService) GetUserByAuth0ID(auth0ID string) (*domain.User, error) {
	return s.userRepo.GetByAuth0ID(auth0ID)
}

// GetUserIDByAuth0ID resolves an Auth0 subject to the local user ID. Used
// by the websocket token validator.
func (s *AuthService) GetUserIDByAuth0ID(auth0ID string) (uuid.UUID, error) {
	user, err := s.userRepo.GetByAuth0ID(auth0ID)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}
