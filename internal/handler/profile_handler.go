package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/orbitask/orbitask-backend/internal/domain"
	"github.com/orbitask/orbitask-backend/internal/middleware"
	"github.com/orbitask/orbitask-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest represents the update profile request body
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName *string `json:"displayName"`
	AvatarURL   string  `json:"avatarUrl,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

// GetMe handles GET /api/v1/users/me
func (h *ProfileHandler) GetMe(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	user, err := h.profileService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get profile")
		return NewInternalError(c, "Failed to get profile")
	}

	avatarURL, err := h.profileService.ResolveAvatarURL(c.Request().Context(), user)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to sign avatar URL")
	}

	return c.JSON(http.StatusOK, toUserResponse(user, avatarURL))
}

// UpdateMe handles PUT /api/v1/users/me
func (h *ProfileHandler) UpdateMe(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	user, err := h.profileService.UpdateDisplayName(userID, req.DisplayName)
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) || errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "displayName", Message: err.Error()},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to update profile")
		return NewInternalError(c, "Failed to update profile")
	}

	log.Info().Str("user_id", userID.String()).Msg("Profile updated")
	return c.JSON(http.StatusOK, toUserResponse(user, ""))
}

// UploadAvatar handles POST /api/v1/users/me/avatar
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	user, err := h.profileService.SetAvatar(c.Request().Context(), userID, data, file.Filename)
	if err != nil {
		switch err {
		case service.ErrAvatarStorageNotConfigured:
			return NewServiceUnavailableError(c, "Avatar uploads are disabled (storage not configured)")
		case service.ErrImageTooLarge:
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "File too large. Maximum size is 5MB"},
			})
		case service.ErrInvalidFormat:
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid format. Supported: JPEG, PNG, WebP"},
			})
		case service.ErrImageTooSmall:
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Image too small. Minimum 50x50 pixels"},
			})
		case service.ErrInvalidImageData:
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid image data"},
			})
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to upload avatar")
			return NewInternalError(c, "Failed to upload avatar")
		}
	}

	avatarURL, err := h.profileService.ResolveAvatarURL(c.Request().Context(), user)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to sign avatar URL")
	}

	log.Info().Str("user_id", userID.String()).Msg("Avatar uploaded")
	return c.JSON(http.StatusOK, toUserResponse(user, avatarURL))
}

// DeleteAvatar handles DELETE /api/v1/users/me/avatar
func (h *ProfileHandler) DeleteAvatar(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if _, err := h.profileService.ClearAvatar(c.Request().Context(), userID); err != nil {
		if errors.Is(err, service.ErrAvatarStorageNotConfigured) {
			return NewServiceUnavailableError(c, "Avatar storage is not configured")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to delete avatar")
		return NewInternalError(c, "Failed to delete avatar")
	}

	log.Info().Str("user_id", userID.String()).Msg("Avatar deleted")
	return c.NoContent(http.StatusNoContent)
}

// Helper function to convert domain.User to UserResponse
func toUserResponse(user *domain.User, avatarURL string) UserResponse {
	return UserResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		AvatarURL:   avatarURL,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}
}
