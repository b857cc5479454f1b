package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sitetrack/internal/aggregate"
	"sitetrack/internal/dto"
	"sitetrack/internal/models"
	"sitetrack/internal/permissions"
	"sitetrack/internal/storage"
	"sitetrack/internal/visibility"
	"sitetrack/internal/watch"
)

// ProjectService orchestrates project mutations, including the cascading
// delete and review-map updates.
type ProjectService struct {
	db       *gorm.DB
	hub      *watch.Hub
	resolver *visibility.Resolver
	images   storage.ImageStore
}

func NewProjectService(db *gorm.DB, hub *watch.Hub, resolver *visibility.Resolver, images storage.ImageStore) *ProjectService {
	return &ProjectService{db: db, hub: hub, resolver: resolver, images: images}
}

// GetProject loads a project the actor may observe.
func (s *ProjectService) GetProject(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load project: %w", err)
	}
	if !s.resolver.ProjectVisible(actor, &project) {
		// Invisible and absent are indistinguishable on purpose.
		return nil, ErrNotFound
	}
	return &project, nil
}

// CreateProject registers a new project with an empty reviews map.
// Personnel id arrays are stored as supplied; assignment of an id with no
// matching user simply never matches a visibility filter.
func (s *ProjectService) CreateProject(ctx context.Context, actor *models.User, req *dto.CreateProjectRequest) (*models.Project, error) {
	if !permissions.CanCreateProject(actor) {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	if err := validateDMY(req.ConstructionStartDate, "constructionStartDate"); err != nil {
		return nil, err
	}
	if err := validateDMY(req.PlannedAcceptanceDate, "plannedAcceptanceDate"); err != nil {
		return nil, err
	}

	project := models.Project{
		ID:                    uuid.New(),
		Name:                  strings.TrimSpace(req.Name),
		ProjectManagerIDs:     datatypes.JSONSlice[string](sliceOrEmpty(req.ProjectManagerIDs)),
		LeadSupervisorIDs:     datatypes.JSONSlice[string](sliceOrEmpty(req.LeadSupervisorIDs)),
		ConstructionStartDate: req.ConstructionStartDate,
		PlannedAcceptanceDate: req.PlannedAcceptanceDate,
		CapitalPlanApproval:   req.CapitalPlanApproval,
		TechnicalPlanApproval: req.TechnicalPlanApproval,
		BudgetApproval:        req.BudgetApproval,
		DesignUnit:            req.DesignUnit,
		ConstructionUnit:      req.ConstructionUnit,
		SupervisionUnit:       req.SupervisionUnit,
		ProjectManagementUnit: req.ProjectManagementUnit,
		SupervisorA:           req.SupervisorA,
		Reviews:               datatypes.NewJSONType(map[string]models.ProjectReview{}),
		ScheduleSheetURL:      req.ScheduleSheetURL,
		ScheduleSheetEditURL:  req.ScheduleSheetEditURL,
	}

	if err := s.db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.hub.Notify(ctx, watch.TopicProjects)
	return &project, nil
}

// UpdateProject applies a partial, field-level update. The id and the
// reviews map are never touched here, and unspecified fields stay as they
// are, so concurrent edits to unrelated fields don't clobber each other.
// Personnel assignments and core fields are gated independently: each
// column set is only applied when the actor holds that specific
// permission, so bundling both in one request never widens either gate.
func (s *ProjectService) UpdateProject(ctx context.Context, actor *models.User, id uuid.UUID, req *dto.UpdateProjectRequest) (*models.Project, error) {
	project, err := s.GetProject(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	personnel := map[string]interface{}{}
	if req.ProjectManagerIDs != nil {
		personnel["project_manager_ids"] = datatypes.JSONSlice[string](sliceOrEmpty(*req.ProjectManagerIDs))
	}
	if req.LeadSupervisorIDs != nil {
		personnel["lead_supervisor_ids"] = datatypes.JSONSlice[string](sliceOrEmpty(*req.LeadSupervisorIDs))
	}
	if len(personnel) > 0 && !permissions.CanReassignPersonnel(actor) {
		return nil, ErrPermissionDenied
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: project name is required", ErrInvalidInput)
		}
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.ConstructionStartDate != nil {
		if err := validateDMY(*req.ConstructionStartDate, "constructionStartDate"); err != nil {
			return nil, err
		}
		updates["construction_start_date"] = *req.ConstructionStartDate
	}
	if req.PlannedAcceptanceDate != nil {
		if err := validateDMY(*req.PlannedAcceptanceDate, "plannedAcceptanceDate"); err != nil {
			return nil, err
		}
		updates["planned_acceptance_date"] = *req.PlannedAcceptanceDate
	}
	if req.CapitalPlanApproval != nil {
		updates["capital_plan_decision_number"] = req.CapitalPlanApproval.DecisionNumber
		updates["capital_plan_date"] = req.CapitalPlanApproval.Date
	}
	if req.TechnicalPlanApproval != nil {
		updates["technical_plan_decision_number"] = req.TechnicalPlanApproval.DecisionNumber
		updates["technical_plan_date"] = req.TechnicalPlanApproval.Date
	}
	if req.BudgetApproval != nil {
		updates["budget_decision_number"] = req.BudgetApproval.DecisionNumber
		updates["budget_date"] = req.BudgetApproval.Date
	}
	if req.DesignUnit != nil {
		updates["design_company_name"] = req.DesignUnit.CompanyName
		updates["design_personnel_name"] = req.DesignUnit.PersonnelName
		updates["design_phone"] = req.DesignUnit.Phone
	}
	if req.ConstructionUnit != nil {
		updates["construction_company_name"] = req.ConstructionUnit.CompanyName
		updates["construction_personnel_name"] = req.ConstructionUnit.PersonnelName
		updates["construction_phone"] = req.ConstructionUnit.Phone
	}
	if req.SupervisionUnit != nil {
		updates["supervision_company_name"] = req.SupervisionUnit.CompanyName
		updates["supervision_personnel_name"] = req.SupervisionUnit.PersonnelName
		updates["supervision_phone"] = req.SupervisionUnit.Phone
	}
	if req.ProjectManagementUnit != nil {
		updates["pm_unit_department_name"] = req.ProjectManagementUnit.DepartmentName
		updates["pm_unit_personnel_name"] = req.ProjectManagementUnit.PersonnelName
		updates["pm_unit_phone"] = req.ProjectManagementUnit.Phone
	}
	if req.SupervisorA != nil {
		updates["supervisor_a_enterprise_name"] = req.SupervisorA.EnterpriseName
		updates["supervisor_a_personnel_name"] = req.SupervisorA.PersonnelName
		updates["supervisor_a_phone"] = req.SupervisorA.Phone
	}
	if req.ScheduleSheetURL != nil {
		updates["schedule_sheet_url"] = *req.ScheduleSheetURL
	}
	if req.ScheduleSheetEditURL != nil {
		updates["schedule_sheet_edit_url"] = *req.ScheduleSheetEditURL
	}
	if len(updates) > 0 && !permissions.CanEditProject(actor, project) {
		return nil, ErrPermissionDenied
	}

	for col, val := range personnel {
		updates[col] = val
	}
	if len(updates) == 0 {
		return project, nil
	}

	if err := s.db.WithContext(ctx).Model(project).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	s.hub.Notify(ctx, watch.TopicProjects)
	return s.GetProject(ctx, actor, id)
}

// DeleteProject cascade-deletes: all child reports (and their stored
// image objects) go first, then the project record. The steps run
// sequentially with no transaction; a failure aborts the remaining steps
// and leaves completed deletions in place. An interruption can therefore
// leave a project with fewer reports (safe) but never reports without
// their anchoring project.
func (s *ProjectService) DeleteProject(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if !permissions.CanDeleteProject(actor) {
		return ErrPermissionDenied
	}

	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load project: %w", err)
	}

	var reports []models.DailyReport
	if err := s.db.WithContext(ctx).Where("project_id = ?", id).Find(&reports).Error; err != nil {
		return fmt.Errorf("load reports for cascade: %w", err)
	}

	for _, report := range reports {
		deleteImageObjects(ctx, s.images, report)
		if err := s.db.WithContext(ctx).Delete(&report).Error; err != nil {
			return fmt.Errorf("cascade delete report %s: %w", report.ID, err)
		}
	}

	if err := s.db.WithContext(ctx).Delete(&project).Error; err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	s.hub.Notify(ctx, watch.TopicProjects)
	s.hub.Notify(ctx, watch.TopicReports)
	return nil
}

// AddReview attaches a manager review to one report of the project. The
// reviewer's display name is denormalized into the entry at write time.
// Reviews are immutable: a second review of the same report is rejected.
func (s *ProjectService) AddReview(ctx context.Context, actor *models.User, projectID, reportID uuid.UUID, req *dto.AddReviewRequest) error {
	project, err := s.GetProject(ctx, actor, projectID)
	if err != nil {
		return err
	}
	if !permissions.CanReviewReport(actor, project) {
		return ErrPermissionDenied
	}
	if strings.TrimSpace(req.Comment) == "" {
		return fmt.Errorf("%w: review comment is required", ErrInvalidInput)
	}

	var report models.DailyReport
	if err := s.db.WithContext(ctx).First(&report, "id = ? AND project_id = ?", reportID, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load report: %w", err)
	}

	if _, exists := project.ReviewMap()[reportID.String()]; exists {
		return fmt.Errorf("%w: report already reviewed", ErrInvalidInput)
	}

	review := models.ProjectReview{
		Comment:        strings.TrimSpace(req.Comment),
		ReviewedByID:   actor.ID.String(),
		ReviewedByName: actor.Name,
		ReviewedAt:     time.Now().UTC(),
	}
	if err := setReviewEntry(ctx, s.db, projectID, reportID.String(), review); err != nil {
		return err
	}

	s.hub.Notify(ctx, watch.TopicProjects)
	return nil
}

func validateDMY(date, field string) error {
	if date == "" {
		return nil
	}
	if _, err := aggregate.ParseDMY(date); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidInput, field, err)
	}
	return nil
}

func sliceOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func deleteImageObjects(ctx context.Context, images storage.ImageStore, report models.DailyReport) {
	if images == nil {
		return
	}
	for _, key := range report.Images {
		if err := images.Delete(ctx, key); err != nil {
			slog.Warn("failed to delete report image", "report_id", report.ID, "key", key, "error", err)
		}
	}
}
