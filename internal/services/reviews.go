package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sitetrack/internal/models"
)

// setReviewEntry writes exactly one key of the project's reviews map via
// a field-path update. Other reviewers' entries are never read or
// rewritten, so concurrent reviews of different reports cannot clobber
// each other. Postgres uses jsonb_set; other dialects (the sqlite test
// store) go through the portable json_set.
func setReviewEntry(ctx context.Context, db *gorm.DB, projectID uuid.UUID, reportID string, review models.ProjectReview) error {
	payload, err := json.Marshal(review)
	if err != nil {
		return fmt.Errorf("marshal review: %w", err)
	}

	var expr interface{}
	if db.Dialector.Name() == "postgres" {
		expr = gorm.Expr(
			"jsonb_set(COALESCE(reviews, '{}'::jsonb), ?, ?::jsonb, true)",
			"{"+reportID+"}", string(payload),
		)
	} else {
		expr = gorm.Expr(
			"json_set(COALESCE(reviews, '{}'), ?, json(?))",
			`$."`+reportID+`"`, string(payload),
		)
	}

	result := db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", projectID).
		Update("reviews", expr)
	if result.Error != nil {
		return fmt.Errorf("set review entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// removeReviewEntry deletes one key from the project's reviews map. It is
// deliberately unexported: reviews are immutable through the API, and the
// only legitimate removal is the cleanup step of deleting the reviewed
// report. A missing key is not an error.
func removeReviewEntry(ctx context.Context, db *gorm.DB, projectID uuid.UUID, reportID string) error {
	var expr interface{}
	if db.Dialector.Name() == "postgres" {
		expr = gorm.Expr("COALESCE(reviews, '{}'::jsonb) - ?::text", reportID)
	} else {
		expr = gorm.Expr("json_remove(COALESCE(reviews, '{}'), ?)", `$."`+reportID+`"`)
	}

	err := db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", projectID).
		Update("reviews", expr).Error
	if err != nil {
		return fmt.Errorf("remove review entry: %w", err)
	}
	return nil
}
