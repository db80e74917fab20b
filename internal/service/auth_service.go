package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campus-hub/lostfound-service/internal/auth"
	"github.com/campus-hub/lostfound-service/internal/config"
	"github.com/campus-hub/lostfound-service/internal/domain"
	"github.com/campus-hub/lostfound-service/internal/repository"
	apperrors "github.com/campus-hub/lostfound-service/pkg/util"
)

const minPasswordLength = 8

// AuthService backs the identity provider: signup, login, profile reads and
// edits, password management.
type AuthService struct {
	profiles   repository.ProfileRepository
	resets     repository.PasswordResetRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	resetTTL   time.Duration
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	ProfileRepo       repository.ProfileRepository
	PasswordResetRepo repository.PasswordResetRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		profiles:   deps.ProfileRepo,
		resets:     deps.PasswordResetRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
	}
}

// SignUp creates a new campus account.
func (s *AuthService) SignUp(ctx context.Context, name, email, password, avatarURL string) (*domain.Profile, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !isCampusEmail(email) {
		return nil, "", time.Time{}, apperrors.NewDomainRule("INVALID_EMAIL_DOMAIN", "please use your campus email address")
	}
	if len(password) < minPasswordLength {
		return nil, "", time.Time{}, apperrors.NewDomainRule("WEAK_PASSWORD", "password must be at least 8 characters long")
	}

	if _, err := s.profiles.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("EMAIL_EXISTS", "an account with this email already exists")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	profile := &domain.Profile{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		AvatarURL:    avatarURL,
		TrustScore:   domain.DefaultTrustScore,
		Role:         domain.RoleStudent,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, "", time.Time{}, apperrors.NewWriteFailed("CREATE_FAILED", "failed to create account", err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(profile.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return profile, token, exp, nil
}

// Login authenticates a profile by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Profile, string, time.Time, error) {
	profile, err := s.profiles.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("INVALID_CREDENTIALS", "invalid email or password")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(profile.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("INVALID_CREDENTIALS", "invalid email or password")
	}

	token, exp, err := s.tokenMgr.GenerateToken(profile.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return profile, token, exp, nil
}

// Logout currently no-ops for stateless JWT approach.
func (s *AuthService) Logout(_ context.Context, _ string) error {
	return nil
}

// GetProfile returns the caller's profile.
func (s *AuthService) GetProfile(ctx context.Context, profileID string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewForbidden("PROFILE_NOT_FOUND", "user profile not found")
		}
		return nil, err
	}
	return profile, nil
}

// UpdateProfile applies a partial profile edit.
func (s *AuthService) UpdateProfile(ctx context.Context, profileID string, patch repository.ProfilePatch) (*domain.Profile, error) {
	if patch.Empty() {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}
	profile, err := s.profiles.UpdateFields(ctx, profileID, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewForbidden("PROFILE_NOT_FOUND", "user profile not found")
		}
		return nil, apperrors.NewWriteFailed("UPDATE_FAILED", "failed to update profile", err)
	}
	return profile, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, profileID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.NewDomainRule("WEAK_PASSWORD", "password must be at least 8 characters long")
	}

	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(profile.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("INVALID_CREDENTIALS", "invalid email or password")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	profile.PasswordHash = hash
	return s.profiles.Update(ctx, profile)
}

// RequestPasswordReset persists a reset token for the email. The result is
// nil without error when no account matches, so callers cannot probe for
// registered addresses.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*repository.PasswordResetToken, error) {
	profile, err := s.profiles.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	token := &repository.PasswordResetToken{
		ProfileID: profile.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.NewDomainRule("WEAK_PASSWORD", "password must be at least 8 characters long")
	}

	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("invalid or expired reset token", nil)
		}
		return err
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return apperrors.NewValidationError("invalid or expired reset token", nil)
	}

	profile, err := s.profiles.GetByID(ctx, token.ProfileID)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	profile.PasswordHash = hash
	if err := s.profiles.Update(ctx, profile); err != nil {
		return err
	}
	return s.resets.MarkUsed(ctx, token.ID)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func isCampusEmail(email string) bool {
	return strings.HasSuffix(email, ".edu") || strings.Contains(email, "college")
}
