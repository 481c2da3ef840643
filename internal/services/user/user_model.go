package user

import (
	"time"

	"github.com/taskdeck/taskdeck/internal/policy"
)

type User struct {
	ID           string      `db:"id" json:"id"`
	Name         string      `db:"name" json:"name"`
	Email        string      `db:"email" json:"email"`
	PasswordHash string      `db:"password_hash" json:"-"`
	Role         policy.Role `db:"role" json:"role"`
	Avatar       *string     `db:"avatar" json:"avatar,omitempty"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// RegisterRequest captures the self-service signup payload. Registration
// always produces a member; roles are granted administratively.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest captures the self-service profile update payload.
type UpdateProfileRequest struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	NewPassword *string `json:"newPassword,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
}
