package model

import (
	"context"
	"strings"
	"time"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetActiveByID(ctx context.Context, id int64) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

// User represents a stored account with its password hash.
type User struct {
	ID             int64
	Email          string
	HashedPassword string
	FirstName      string
	LastName       string
	RoleID         int64
	Role           RoleName
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PublicUser is the representation of a user returned to clients.
type PublicUser struct {
	ID        int64    `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	RoleID    int64    `json:"role_id"`
	Role      RoleName `json:"role"`
}

// Public strips authentication material from the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		RoleID:    u.RoleID,
		Role:      u.Role,
	}
}

// SignupParams contains the fields accepted on signup.
type SignupParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	TokenPair
	User PublicUser `json:"user"`
}
