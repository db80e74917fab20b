package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/campus-hub/lostfound-service/internal/domain"
	"github.com/campus-hub/lostfound-service/internal/repository"
	apperrors "github.com/campus-hub/lostfound-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Profile *domain.Profile
	Token   string
}

// Middleware validates bearer tokens and loads the caller's profile.
type Middleware struct {
	tokens   *TokenManager
	profiles repository.ProfileRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, profiles repository.ProfileRepository) *Middleware {
	return &Middleware{tokens: tokens, profiles: profiles}
}

// Require enforces authentication for protected routes.
func (m *Middleware) Require(c *fiber.Ctx) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	principal, err := m.resolve(c, token)
	if err != nil {
		return err
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// Optional resolves a bearer token when present but never rejects; requests
// without a usable identity proceed anonymously.
func (m *Middleware) Optional(c *fiber.Ctx) error {
	token, err := bearerToken(c)
	if err == nil {
		if principal, resolveErr := m.resolve(c, token); resolveErr == nil {
			c.Locals(principalKey, principal)
		}
	}
	return c.Next()
}

// RequireRole gates a route on the caller's stored role. Must run after
// Require.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("AUTH_REQUIRED", "authentication required")
		}
		if principal.Profile == nil {
			return apperrors.NewForbidden("PROFILE_NOT_FOUND", "user profile not found")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Profile.Role]; !exists {
			return apperrors.NewForbidden("AUTH_FORBIDDEN", "insufficient permissions")
		}
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

func (m *Middleware) resolve(c *fiber.Ctx, token string) (*Principal, error) {
	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		return nil, apperrors.NewUnauthorized("AUTH_INVALID_TOKEN", "invalid or expired token")
	}

	profile, err := m.profiles.GetByID(c.Context(), claims.ProfileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("AUTH_INVALID_TOKEN", "invalid or expired token")
		}
		return nil, apperrors.MapError(err)
	}

	return &Principal{Profile: profile, Token: token}, nil
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", apperrors.NewUnauthorized("AUTH_MISSING_TOKEN", "missing or invalid authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperrors.NewUnauthorized("AUTH_MISSING_TOKEN", "missing or invalid authorization header")
	}
	if strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.NewUnauthorized("AUTH_NO_TOKEN", "no token provided")
	}
	return parts[1], nil
}
