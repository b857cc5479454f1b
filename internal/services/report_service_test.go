package services

import (
	"context"
	"errors"
	"testing"

	"sitetrack/internal/dto"
	"sitetrack/internal/models"
	"sitetrack/internal/visibility"
)

func TestDeleteReportRemovesReviewEntry(t *testing.T) {
	db := newTestDB(t)
	hub := newTestHub(t)
	projects := NewProjectService(db, hub, visibility.NewResolver(db), nil)
	reports := NewReportService(db, hub, nil)

	admin := seedUser(t, db, models.RoleAdmin)
	pm := seedUser(t, db, models.RoleProjectManager)
	project := seedProject(t, db, "Depot", []string{pm.ID.String()}, nil)
	report := seedReport(t, db, project.ID, "05/03/2025")

	if err := projects.AddReview(context.Background(), pm, project.ID, report.ID, &dto.AddReviewRequest{
		Comment: "on schedule",
	}); err != nil {
		t.Fatalf("add review: %v", err)
	}

	if err := reports.Delete(context.Background(), admin, report.ID); err != nil {
		t.Fatalf("delete report: %v", err)
	}

	// The review entry keyed by the report id must be gone along with
	// the report row; a dangling review would point at nothing.
	reloaded := reloadProject(t, db, project.ID)
	if _, ok := reloaded.ReviewMap()[report.ID.String()]; ok {
		t.Fatal("review entry survived its report's deletion")
	}
	var remaining int64
	if err := db.Model(&models.DailyReport{}).Where("id = ?", report.ID).Count(&remaining).Error; err != nil {
		t.Fatalf("count reports: %v", err)
	}
	if remaining != 0 {
		t.Fatal("report row survived deletion")
	}
}

func TestDeleteReportRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	reports := NewReportService(db, newTestHub(t), nil)

	pm := seedUser(t, db, models.RoleProjectManager)
	project := seedProject(t, db, "Depot 2", []string{pm.ID.String()}, nil)
	report := seedReport(t, db, project.ID, "06/03/2025")

	err := reports.Delete(context.Background(), pm, report.ID)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied for non-admin delete, got %v", err)
	}
	var remaining int64
	if err := db.Model(&models.DailyReport{}).Where("id = ?", report.ID).Count(&remaining).Error; err != nil {
		t.Fatalf("count reports: %v", err)
	}
	if remaining != 1 {
		t.Fatal("report deleted despite denial")
	}
}
