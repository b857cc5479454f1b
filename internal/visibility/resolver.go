// Package visibility computes the exact project/report/user subsets a
// signed-in user may observe. Every read path in the API goes through the
// resolver so that the same scoping rules apply regardless of which query
// produced the data.
package visibility

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"sitetrack/internal/models"
	"sitetrack/internal/permissions"
)

// reportBatchSize caps the number of project ids per IN query.
const reportBatchSize = 30

type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// VisibleUsers returns the full directory for users who may fetch it and
// the singleton {self} for everyone else. Pending users see only
// themselves.
func (r *Resolver) VisibleUsers(ctx context.Context, u *models.User) ([]models.User, error) {
	if u == nil {
		return nil, nil
	}
	if !permissions.CanFetchAllUsers(u) {
		return []models.User{*u}, nil
	}
	var users []models.User
	if err := r.db.WithContext(ctx).Order("name").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("load user directory: %w", err)
	}
	return users, nil
}

// VisibleProjects returns the project set the user may observe.
// Admin/DepartmentHead see everything; managers and supervisors see the
// union of their assignments, merged by id.
func (r *Resolver) VisibleProjects(ctx context.Context, u *models.User) ([]models.Project, error) {
	if u == nil || !u.Role.Granted() {
		return nil, nil
	}

	if u.Role == models.RoleAdmin || u.Role == models.RoleDepartmentHead {
		var projects []models.Project
		if err := r.db.WithContext(ctx).Order("name").Find(&projects).Error; err != nil {
			return nil, fmt.Errorf("load projects: %w", err)
		}
		return projects, nil
	}

	// Two independent containment queries; neither's completion order
	// may affect the merged result.
	var asManager, asSupervisor []models.Project
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.projectsContaining(gctx, "project_manager_ids", u.ID.String(), &asManager)
	})
	g.Go(func() error {
		return r.projectsContaining(gctx, "lead_supervisor_ids", u.ID.String(), &asSupervisor)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	switch u.Role {
	case models.RoleProjectManager:
		return MergeProjects(asManager, asSupervisor), nil
	case models.RoleLeadSupervisor:
		return MergeProjects(asSupervisor, asManager), nil
	}
	return nil, nil
}

func (r *Resolver) projectsContaining(ctx context.Context, column, userID string, out *[]models.Project) error {
	err := r.db.WithContext(ctx).
		Where(column+" @> ?::jsonb", fmt.Sprintf(`[%q]`, userID)).
		Find(out).Error
	if err != nil {
		return fmt.Errorf("load projects by %s: %w", column, err)
	}
	return nil
}

// VisibleReports returns all reports belonging to the given visible
// project set, batching the id list so no single query carries more than
// reportBatchSize membership operands. Nothing is truncated: every batch
// runs and the results are merged.
func (r *Resolver) VisibleReports(ctx context.Context, u *models.User, projects []models.Project) ([]models.DailyReport, error) {
	if u == nil || !u.Role.Granted() || len(projects) == 0 {
		return nil, nil
	}

	var reports []models.DailyReport
	for _, batch := range ChunkIDs(ProjectIDs(projects), reportBatchSize) {
		var chunk []models.DailyReport
		if err := r.db.WithContext(ctx).Where("project_id IN ?", batch).Find(&chunk).Error; err != nil {
			return nil, fmt.Errorf("load reports: %w", err)
		}
		reports = append(reports, chunk...)
	}
	return reports, nil
}

// ProjectVisible reports whether a single project is inside the user's
// visible set, without loading the whole set.
func (r *Resolver) ProjectVisible(u *models.User, p *models.Project) bool {
	if u == nil || p == nil || !u.Role.Granted() {
		return false
	}
	switch u.Role {
	case models.RoleAdmin, models.RoleDepartmentHead:
		return true
	case models.RoleProjectManager, models.RoleLeadSupervisor:
		id := u.ID.String()
		return p.HasManager(id) || p.HasSupervisor(id)
	}
	return false
}
