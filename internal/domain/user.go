package domain

import (
	"context"
	"fmt"
	"time"
)

// Role is the closed set of application roles. A user's role is assigned at
// registration and never changes afterwards.
type Role string

const (
	RoleProjectManager Role = "project-manager"
	RoleEventOrganizer Role = "event-organizer"
	RoleTeamMember     Role = "team-member"
)

// ParseRole converts a wire string into a Role. Unknown values are rejected
// at the boundary instead of failing a string comparison later.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleProjectManager, RoleEventOrganizer, RoleTeamMember:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
	}
}

// User represents a registered user. PasswordHash and Salt are never serialized.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the
// repository on create.
func NewUser(name, email string, role Role, passwordHash, salt string, createdAt, updatedAt time.Time) *User {
	return &User{
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// UserSummary is the reduced user shape embedded in project and task responses.
// swagger:model UserSummary
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, role Role, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the embedded user ID. The error
// carries the underlying verification failure (bad signature, expiry, ...).
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]*User, error)
}

// UserService exposes user lookups for assignment pickers and the auth middleware.
type UserService interface {
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]*User, error)
}

// AuthService defines registration and credential verification.
type AuthService interface {
	Register(ctx context.Context, name, email, password string, role Role) (*User, string, error)
	Login(ctx context.Context, email, password string) (*User, string, error)
}
