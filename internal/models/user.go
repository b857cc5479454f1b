package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the application profile bound to an auth identity. A freshly
// provisioned user has Role = RolePending until an Admin approves it.
type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	// Uniqueness is enforced by a partial index over live rows only
	// (see database.Migrate), so a soft-deleted profile never blocks
	// the same identity from being provisioned again.
	Email        string         `gorm:"not null;size:255;index" json:"email"`
	Name         string         `gorm:"not null;size:255" json:"name"`
	Password     string         `gorm:"not null" json:"-"`
	Role         Role           `gorm:"size:20;default:''" json:"role"`
	GoogleUserID *string        `gorm:"size:255;index" json:"-"`
	AuthProvider string         `gorm:"size:50;default:'email'" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
