package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/lostfound-service/internal/config"
	"github.com/campus-hub/lostfound-service/internal/domain"
	"github.com/campus-hub/lostfound-service/internal/repository"
)

func newAuthServiceFixture() (*AuthService, *fakeProfileRepo, *fakeResetRepo) {
	profiles := newFakeProfileRepo()
	resets := newFakeResetRepo()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   60,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              4,
		},
	}
	svc := NewAuthService(cfg, AuthDependencies{
		ProfileRepo:       profiles,
		PasswordResetRepo: resets,
	})
	return svc, profiles, resets
}

func TestSignUpRejectsNonCampusEmail(t *testing.T) {
	svc, _, _ := newAuthServiceFixture()
	_, _, _, err := svc.SignUp(context.Background(), "Dana", "dana@gmail.com", "sup3rsecret", "")
	requireCode(t, err, "INVALID_EMAIL_DOMAIN")
}

func TestSignUpRejectsWeakPassword(t *testing.T) {
	svc, _, _ := newAuthServiceFixture()
	_, _, _, err := svc.SignUp(context.Background(), "Dana", "dana@state.edu", "short", "")
	requireCode(t, err, "WEAK_PASSWORD")
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthServiceFixture()
	_, _, _, err := svc.SignUp(context.Background(), "Dana", "dana@state.edu", "sup3rsecret", "")
	require.NoError(t, err)

	_, _, _, err = svc.SignUp(context.Background(), "Dana Again", "Dana@state.edu", "sup3rsecret", "")
	requireCode(t, err, "EMAIL_EXISTS")
}

func TestSignUpAndLogin(t *testing.T) {
	svc, _, _ := newAuthServiceFixture()
	profile, token, _, err := svc.SignUp(context.Background(), "Dana", "dana@state.edu", "sup3rsecret", "")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, domain.RoleStudent, profile.Role)
	assert.Equal(t, domain.DefaultTrustScore, profile.TrustScore)
	assert.NotEqual(t, "sup3rsecret", profile.PasswordHash)

	logged, token, _, err := svc.Login(context.Background(), "dana@state.edu", "sup3rsecret")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, logged.ID)
	assert.NotEmpty(t, token)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, claims.ProfileID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthServiceFixture()
	_, _, _, err := svc.SignUp(context.Background(), "Dana", "dana@state.edu", "sup3rsecret", "")
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), "dana@state.edu", "wrongpassword")
	requireCode(t, err, "INVALID_CREDENTIALS")

	_, _, _, err = svc.Login(context.Background(), "nobody@state.edu", "sup3rsecret")
	requireCode(t, err, "INVALID_CREDENTIALS")
}

func TestUpdateProfilePatchesFields(t *testing.T) {
	svc, _, _ := newAuthServiceFixture()
	profile, _, _, err := svc.SignUp(context.Background(), "Dana", "dana@state.edu", "sup3rsecret", "")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(context.Background(), profile.ID, repository.ProfilePatch{})
	requireCode(t, err, "VALIDATION_ERROR")

	name := "Dana Q"
	updated, err := svc.UpdateProfile(context.Background(), profile.ID, repository.ProfilePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, profile.Email, updated.Email)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	svc, _, _ := newAuthServiceFixture()
	profile, _, _, err := svc.SignUp(context.Background(), "Dana", "dana@state.edu", "sup3rsecret", "")
	require.NoError(t, err)

	requireCode(t, svc.ChangePassword(context.Background(), profile.ID, "wrong", "an0thersecret"), "INVALID_CREDENTIALS")
	requireCode(t, svc.ChangePassword(context.Background(), profile.ID, "sup3rsecret", "short"), "WEAK_PASSWORD")
	require.NoError(t, svc.ChangePassword(context.Background(), profile.ID, "sup3rsecret", "an0thersecret"))

	_, _, _, err = svc.Login(context.Background(), "dana@state.edu", "an0thersecret")
	require.NoError(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, _ := newAuthServiceFixture()
	_, _, _, err := svc.SignUp(context.Background(), "Dana", "dana@state.edu", "sup3rsecret", "")
	require.NoError(t, err)

	// Unknown addresses produce no token and no error.
	token, err := svc.RequestPasswordReset(context.Background(), "nobody@state.edu")
	require.NoError(t, err)
	assert.Nil(t, token)

	token, err = svc.RequestPasswordReset(context.Background(), "dana@state.edu")
	require.NoError(t, err)
	require.NotNil(t, token)

	requireCode(t, svc.ConfirmPasswordReset(context.Background(), "bogus-token", "an0thersecret"), "VALIDATION_ERROR")
	require.NoError(t, svc.ConfirmPasswordReset(context.Background(), token.Token, "an0thersecret"))

	// The token is single use.
	requireCode(t, svc.ConfirmPasswordReset(context.Background(), token.Token, "yetan0ther"), "VALIDATION_ERROR")

	_, _, _, err = svc.Login(context.Background(), "dana@state.edu", "an0thersecret")
	require.NoError(t, err)
}
