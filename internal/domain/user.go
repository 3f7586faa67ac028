package domain

import "time"

// User is the domain entity for a user account.
// PasswordHash and RefreshTokenHash never leave the server; responses are
// shaped by dto.UserResponse and the GraphQL type, neither of which expose them.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	// RefreshTokenHash is the bcrypt hash of the latest refresh token issued
	// to this user, or nil when the user has no active session.
	RefreshTokenHash *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
