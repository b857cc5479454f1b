package dto

import "github.com/google/uuid"

type CreateReportRequest struct {
	ProjectID uuid.UUID `json:"projectId"`
	Date      string    `json:"date"` // DD/MM/YYYY
	Tasks     string    `json:"tasks"`
	// Images are base64 data URLs; payloads land in object storage.
	Images []string `json:"images"`
}

// UpdateReportRequest is a partial update of a report's text fields.
// Image changes go through delete-and-recreate.
type UpdateReportRequest struct {
	Date  *string `json:"date"`
	Tasks *string `json:"tasks"`
}
