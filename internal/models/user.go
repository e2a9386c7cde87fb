package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleClient  = "client"
	RoleArtisan = "artisan"
)

// User covers both clients and artisans; Role discriminates. Artisan
// accounts additionally carry Work and Rate. Password is empty for
// accounts created through an OAuth provider.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password     string    `gorm:"size:255" json:"-"`
	PhoneNumber  string    `gorm:"size:30" json:"phone_number,omitempty"`
	Role         string    `gorm:"size:20;not null;default:'client'" json:"role"`
	Work         string    `gorm:"size:100" json:"work,omitempty"`
	Rate         string    `gorm:"size:50" json:"rate,omitempty"`
	AuthProvider string    `gorm:"size:50;default:'email'" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
