package models

import "time"

// UserRole gates privileged operations (approval, disposal, maintenance).
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleManager  UserRole = "manager"
	RoleEmployee UserRole = "employee"
)

type User struct {
	ID           string   `json:"id" db:"id"`
	Email        string   `json:"email" db:"email"`
	Name         string   `json:"name" db:"name"`
	Department   *string  `json:"department,omitempty" db:"department"`
	Role         UserRole `json:"role" db:"role"`
	IsActive     bool     `json:"is_active" db:"is_active"`
	PasswordHash string   `json:"-" db:"password_hash"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type SignupRequest struct {
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Password   string  `json:"password"`
	Department *string `json:"department"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UpdateUserRequest is the admin-facing partial update body.
type UpdateUserRequest struct {
	Name       *string   `json:"name"`
	Department *string   `json:"department"`
	Role       *UserRole `json:"role"`
	IsActive   *bool     `json:"is_active"`
}
