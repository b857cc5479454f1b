package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sitetrack/internal/dto"
	"sitetrack/internal/models"
	"sitetrack/internal/permissions"
	"sitetrack/internal/storage"
	"sitetrack/internal/watch"
)

// ReportService manages daily reports and their image objects.
type ReportService struct {
	db     *gorm.DB
	hub    *watch.Hub
	images storage.ImageStore
}

func NewReportService(db *gorm.DB, hub *watch.Hub, images storage.ImageStore) *ReportService {
	return &ReportService{db: db, hub: hub, images: images}
}

// Create files a report against a project the actor is assigned to.
// Image payloads arrive as base64 data URLs and are moved into object
// storage; the report row stores only the resulting keys. The submitter's
// display name is denormalized onto the report.
func (s *ReportService) Create(ctx context.Context, actor *models.User, req *dto.CreateReportRequest) (*models.DailyReport, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, "id = ?", req.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load project: %w", err)
	}
	if !permissions.CanAddReport(actor, &project) {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(req.Tasks) == "" {
		return nil, fmt.Errorf("%w: tasks description is required", ErrInvalidInput)
	}
	if req.Date == "" {
		return nil, fmt.Errorf("%w: report date is required", ErrInvalidInput)
	}
	if err := validateDMY(req.Date, "date"); err != nil {
		return nil, err
	}

	report := models.DailyReport{
		ID:          uuid.New(),
		ProjectID:   project.ID,
		Date:        req.Date,
		Tasks:       strings.TrimSpace(req.Tasks),
		Images:      datatypes.JSONSlice[string]([]string{}),
		SubmittedBy: actor.Name,
	}

	keys, err := s.storeImages(ctx, report.ID, req.Images)
	if err != nil {
		// Orphaned objects from earlier iterations are cleaned up so a
		// rejected report leaves nothing behind in the bucket.
		for _, key := range keys {
			_ = s.images.Delete(ctx, key)
		}
		return nil, err
	}
	report.Images = datatypes.JSONSlice[string](keys)

	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		for _, key := range keys {
			_ = s.images.Delete(ctx, key)
		}
		return nil, fmt.Errorf("create report: %w", err)
	}

	s.hub.Notify(ctx, watch.TopicReports)
	return &report, nil
}

// Update edits a report's text fields. Only unspecified fields are left
// untouched; images are immutable after submission.
func (s *ReportService) Update(ctx context.Context, actor *models.User, id uuid.UUID, req *dto.UpdateReportRequest) (*models.DailyReport, error) {
	report, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !permissions.CanEditReport(actor) {
		return nil, ErrPermissionDenied
	}

	updates := map[string]interface{}{}
	if req.Date != nil {
		if err := validateDMY(*req.Date, "date"); err != nil {
			return nil, err
		}
		updates["date"] = *req.Date
	}
	if req.Tasks != nil {
		if strings.TrimSpace(*req.Tasks) == "" {
			return nil, fmt.Errorf("%w: tasks description is required", ErrInvalidInput)
		}
		updates["tasks"] = strings.TrimSpace(*req.Tasks)
	}
	if len(updates) == 0 {
		return report, nil
	}

	if err := s.db.WithContext(ctx).Model(report).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update report: %w", err)
	}

	s.hub.Notify(ctx, watch.TopicReports)
	return s.load(ctx, id)
}

// Delete removes a report and everything hanging off it. Order matters:
// the review entry on the parent project goes first, then the stored
// image objects, then the report row, so an interruption never leaves a
// review pointing at a live report. Image deletion failures are logged
// and skipped rather than aborting the row delete.
func (s *ReportService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	report, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !permissions.CanDeleteReport(actor) {
		return ErrPermissionDenied
	}

	if err := removeReviewEntry(ctx, s.db, report.ProjectID, report.ID.String()); err != nil {
		return err
	}
	deleteImageObjects(ctx, s.images, *report)

	if err := s.db.WithContext(ctx).Delete(report).Error; err != nil {
		return fmt.Errorf("delete report: %w", err)
	}

	s.hub.Notify(ctx, watch.TopicReports)
	s.hub.Notify(ctx, watch.TopicProjects)
	return nil
}

func (s *ReportService) load(ctx context.Context, id uuid.UUID) (*models.DailyReport, error) {
	var report models.DailyReport
	if err := s.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load report: %w", err)
	}
	return &report, nil
}

func (s *ReportService) storeImages(ctx context.Context, reportID uuid.UUID, dataURLs []string) ([]string, error) {
	keys := make([]string, 0, len(dataURLs))
	for _, dataURL := range dataURLs {
		key, err := s.images.PutImage(ctx, reportID, dataURL)
		if err != nil {
			return keys, fmt.Errorf("%w: image upload failed: %v", ErrInvalidInput, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}
