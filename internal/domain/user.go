package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// User mirrors an account of the identity provider. Rows are written by the
// identity webhook only.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID string    `gorm:"uniqueIndex;not null;size:191" json:"external_id"`
	Email      string    `gorm:"not null" json:"email"`
	Name       string    `json:"name"`
	Role       Role      `gorm:"not null;default:'student'" json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleStudent
	}
	return nil
}

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) Valid() bool {
	return p.UserID != uuid.Nil
}
