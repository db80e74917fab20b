package dto

import (
	"time"

	"github.com/campus-hub/lostfound-service/internal/domain"
)

// SignUpRequest payload.
type SignUpRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	AvatarURL string `json:"avatarUrl"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest payload; nil fields are left untouched.
type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// PasswordResetRequest payload.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest payload.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// AuthResponse carries the issued token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ProfileResponse is the public profile shape.
type ProfileResponse struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	AvatarURL       string      `json:"avatarUrl"`
	TrustScore      int         `json:"trustScore"`
	Role            domain.Role `json:"role"`
	IsTrustedHelper bool        `json:"isTrustedHelper"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// NewProfileResponse shapes a profile row.
func NewProfileResponse(profile *domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:              profile.ID,
		Name:            profile.Name,
		Email:           profile.Email,
		AvatarURL:       profile.AvatarURL,
		TrustScore:      profile.TrustScore,
		Role:            profile.Role,
		IsTrustedHelper: profile.IsTrustedHelper(),
		CreatedAt:       profile.CreatedAt,
	}
}
