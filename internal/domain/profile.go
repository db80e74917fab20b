package domain

import "time"

// Role enumerates profile roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// TrustedHelperThreshold is the trust score at which a profile earns the
// trusted-helper badge.
const TrustedHelperThreshold = 80

// DefaultTrustScore is assigned to new profiles.
const DefaultTrustScore = 50

// Profile is the account record for a campus user.
type Profile struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	AvatarURL    string
	TrustScore   int
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsTrustedHelper reports whether the profile qualifies for the
// trusted-helper badge.
func (p *Profile) IsTrustedHelper() bool {
	return p.TrustScore >= TrustedHelperThreshold
}
