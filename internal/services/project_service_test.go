package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"sitetrack/internal/dto"
	"sitetrack/internal/models"
	"sitetrack/internal/visibility"
)

func TestUpdateProjectPersonnelBundleCannotTouchCoreFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db, newTestHub(t), visibility.NewResolver(db), nil)
	head := seedUser(t, db, models.RoleDepartmentHead)
	project := seedProject(t, db, "Bridge A", nil, nil)

	name := "Renamed"
	managers := []string{uuid.NewString()}
	_, err := svc.UpdateProject(context.Background(), head, project.ID, &dto.UpdateProjectRequest{
		Name:              &name,
		ProjectManagerIDs: &managers,
	})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied for bundled core+personnel update, got %v", err)
	}

	reloaded := reloadProject(t, db, project.ID)
	if reloaded.Name != "Bridge A" {
		t.Fatalf("core field changed despite denial: name = %q", reloaded.Name)
	}
	if len(reloaded.ProjectManagerIDs) != 0 {
		t.Fatalf("personnel changed despite denial: %v", reloaded.ProjectManagerIDs)
	}

	// The same actor may change personnel alone.
	if _, err := svc.UpdateProject(context.Background(), head, project.ID, &dto.UpdateProjectRequest{
		ProjectManagerIDs: &managers,
	}); err != nil {
		t.Fatalf("personnel-only update by department head: %v", err)
	}
	reloaded = reloadProject(t, db, project.ID)
	if len(reloaded.ProjectManagerIDs) != 1 || reloaded.ProjectManagerIDs[0] != managers[0] {
		t.Fatalf("personnel-only update not applied: %v", reloaded.ProjectManagerIDs)
	}
	if reloaded.Name != "Bridge A" {
		t.Fatalf("personnel-only update touched name: %q", reloaded.Name)
	}
}

func TestUpdateProjectManagerCannotReassignPersonnel(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db, newTestHub(t), visibility.NewResolver(db), nil)
	pm := seedUser(t, db, models.RoleProjectManager)
	project := seedProject(t, db, "Bridge B", []string{pm.ID.String()}, nil)

	name := "Bridge B phase 2"
	if _, err := svc.UpdateProject(context.Background(), pm, project.ID, &dto.UpdateProjectRequest{
		Name: &name,
	}); err != nil {
		t.Fatalf("assigned manager editing core fields: %v", err)
	}

	supervisors := []string{uuid.NewString()}
	_, err := svc.UpdateProject(context.Background(), pm, project.ID, &dto.UpdateProjectRequest{
		LeadSupervisorIDs: &supervisors,
	})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied for manager reassigning personnel, got %v", err)
	}
}

func TestDeleteProjectCascadesReports(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db, newTestHub(t), visibility.NewResolver(db), nil)
	admin := seedUser(t, db, models.RoleAdmin)
	project := seedProject(t, db, "Bridge C", nil, nil)
	seedReport(t, db, project.ID, "01/02/2025")
	seedReport(t, db, project.ID, "02/02/2025")

	if err := svc.DeleteProject(context.Background(), admin, project.ID); err != nil {
		t.Fatalf("delete project: %v", err)
	}

	var remaining int64
	if err := db.Model(&models.DailyReport{}).Where("project_id = ?", project.ID).Count(&remaining).Error; err != nil {
		t.Fatalf("count reports: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("cascade left %d reports behind", remaining)
	}
	var projects int64
	if err := db.Model(&models.Project{}).Where("id = ?", project.ID).Count(&projects).Error; err != nil {
		t.Fatalf("count projects: %v", err)
	}
	if projects != 0 {
		t.Fatal("project survived its own deletion")
	}
}

func TestAddReviewIsImmutable(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db, newTestHub(t), visibility.NewResolver(db), nil)
	pm := seedUser(t, db, models.RoleProjectManager)
	project := seedProject(t, db, "Bridge D", []string{pm.ID.String()}, nil)
	report := seedReport(t, db, project.ID, "03/02/2025")

	if err := svc.AddReview(context.Background(), pm, project.ID, report.ID, &dto.AddReviewRequest{
		Comment: "good pace",
	}); err != nil {
		t.Fatalf("first review: %v", err)
	}

	reloaded := reloadProject(t, db, project.ID)
	review, ok := reloaded.ReviewMap()[report.ID.String()]
	if !ok {
		t.Fatal("review entry missing after AddReview")
	}
	if review.Comment != "good pace" || review.ReviewedByName != pm.Name {
		t.Fatalf("unexpected review entry: %+v", review)
	}

	err := svc.AddReview(context.Background(), pm, project.ID, report.ID, &dto.AddReviewRequest{
		Comment: "changed my mind",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected second review to be rejected, got %v", err)
	}
	reloaded = reloadProject(t, db, project.ID)
	if got := reloaded.ReviewMap()[report.ID.String()].Comment; got != "good pace" {
		t.Fatalf("review mutated: %q", got)
	}
}
