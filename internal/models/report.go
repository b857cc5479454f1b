package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DailyReport is a field report filed against a project. Images holds
// object-store keys, not payloads; SubmittedBy is the submitter's display
// name denormalized at creation time. The report's review, if any, lives
// in the parent project's reviews map.
type DailyReport struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID                   `gorm:"type:uuid;not null;index" json:"projectId"`
	Date        string                      `gorm:"size:10;not null" json:"date"` // DD/MM/YYYY
	Tasks       string                      `gorm:"type:text" json:"tasks"`
	Images      datatypes.JSONSlice[string] `gorm:"type:jsonb;default:'[]'" json:"images"`
	SubmittedBy string                      `gorm:"size:255" json:"submittedBy"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
	DeletedAt   gorm.DeletedAt              `gorm:"index" json:"-"`
}
