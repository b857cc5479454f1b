package dto

import (
	"sitetrack/internal/aggregate"
	"sitetrack/internal/models"
)

type CreateProjectRequest struct {
	Name                  string                          `json:"name"`
	ProjectManagerIDs     []string                        `json:"projectManagerIds"`
	LeadSupervisorIDs     []string                        `json:"leadSupervisorIds"`
	ConstructionStartDate string                          `json:"constructionStartDate"`
	PlannedAcceptanceDate string                          `json:"plannedAcceptanceDate"`
	CapitalPlanApproval   models.Approval                 `json:"capitalPlanApproval"`
	TechnicalPlanApproval models.Approval                 `json:"technicalPlanApproval"`
	BudgetApproval        models.Approval                 `json:"budgetApproval"`
	DesignUnit            models.ContactUnit              `json:"designUnit"`
	ConstructionUnit      models.ContactUnit              `json:"constructionUnit"`
	SupervisionUnit       models.ContactUnit              `json:"supervisionUnit"`
	ProjectManagementUnit models.ProjectManagementContact `json:"projectManagementUnit"`
	SupervisorA           models.SupervisorAContact       `json:"supervisorA"`
	ScheduleSheetURL      string                          `json:"scheduleSheetUrl"`
	ScheduleSheetEditURL  string                          `json:"scheduleSheetEditUrl"`
}

// UpdateProjectRequest carries a partial update: nil fields are left
// untouched. Personnel id changes are permission-gated separately from
// core fields.
type UpdateProjectRequest struct {
	Name                  *string                          `json:"name"`
	ProjectManagerIDs     *[]string                        `json:"projectManagerIds"`
	LeadSupervisorIDs     *[]string                        `json:"leadSupervisorIds"`
	ConstructionStartDate *string                          `json:"constructionStartDate"`
	PlannedAcceptanceDate *string                          `json:"plannedAcceptanceDate"`
	CapitalPlanApproval   *models.Approval                 `json:"capitalPlanApproval"`
	TechnicalPlanApproval *models.Approval                 `json:"technicalPlanApproval"`
	BudgetApproval        *models.Approval                 `json:"budgetApproval"`
	DesignUnit            *models.ContactUnit              `json:"designUnit"`
	ConstructionUnit      *models.ContactUnit              `json:"constructionUnit"`
	SupervisionUnit       *models.ContactUnit              `json:"supervisionUnit"`
	ProjectManagementUnit *models.ProjectManagementContact `json:"projectManagementUnit"`
	SupervisorA           *models.SupervisorAContact       `json:"supervisorA"`
	ScheduleSheetURL      *string                          `json:"scheduleSheetUrl"`
	ScheduleSheetEditURL  *string                          `json:"scheduleSheetEditUrl"`
}

// TouchesPersonnel reports whether the update changes assignment arrays.
func (r *UpdateProjectRequest) TouchesPersonnel() bool {
	return r.ProjectManagerIDs != nil || r.LeadSupervisorIDs != nil
}

type AddReviewRequest struct {
	Comment string `json:"comment"`
}

// ProjectResponse is a project with its derived schedule progress.
type ProjectResponse struct {
	models.Project
	Progress aggregate.Progress `json:"progress"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
}
