package users

import (
	"encoding/json"
	"time"
)

type Role string

const (
	RoleClient       Role = "client"
	RolePractitioner Role = "practitioner"
	RoleAdmin        Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RolePractitioner, RoleAdmin:
		return true
	}
	return false
}

// Staff reports whether the role may manage catalog content and clinic data.
func (r Role) Staff() bool {
	return r == RolePractitioner || r == RoleAdmin
}

type User struct {
	ID           string    `json:"id"`
	Role         Role      `json:"role"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        *string   `json:"phone,omitempty"`
	AvatarPath   *string   `json:"avatar_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the row-level preference store keyed by user id.
type Profile struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Preferences json.RawMessage `json:"preferences"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
