package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Approval is a single plan/budget approval record on a project.
type Approval struct {
	DecisionNumber string `gorm:"size:100" json:"decisionNumber"`
	Date           string `gorm:"size:10" json:"date"` // DD/MM/YYYY
}

// ContactUnit identifies an external company involved in the project.
type ContactUnit struct {
	CompanyName   string `gorm:"size:255" json:"companyName"`
	PersonnelName string `gorm:"size:255" json:"personnelName"`
	Phone         string `gorm:"size:50" json:"phone"`
}

// ProjectManagementContact is the owning department's contact record.
type ProjectManagementContact struct {
	DepartmentName string `gorm:"size:255" json:"departmentName"`
	PersonnelName  string `gorm:"size:255" json:"personnelName"`
	Phone          string `gorm:"size:50" json:"phone"`
}

// SupervisorAContact is the side-A supervision contact record.
type SupervisorAContact struct {
	EnterpriseName string `gorm:"size:255" json:"enterpriseName"`
	PersonnelName  string `gorm:"size:255" json:"personnelName"`
	Phone          string `gorm:"size:50" json:"phone"`
}

// ProjectReview is a manager's review of one daily report, stored on the
// parent project keyed by report id. The reviewer name is denormalized at
// write time so review display never depends on the reviewer's user record
// still being visible.
type ProjectReview struct {
	Comment        string    `json:"comment"`
	ReviewedByID   string    `json:"reviewedById"`
	ReviewedByName string    `json:"reviewedByName"`
	ReviewedAt     time.Time `json:"reviewedAt"`
}

// Project is a construction project. Personnel assignment arrays and the
// report-review map live in jsonb columns; the reviews map is only ever
// touched through field-path updates (see services.ProjectService) so
// concurrent reviewers cannot clobber each other.
type Project struct {
	ID                    uuid.UUID                                      `gorm:"type:uuid;primaryKey" json:"id"`
	Name                  string                                         `gorm:"not null;size:255;index" json:"name"`
	ProjectManagerIDs     datatypes.JSONSlice[string]                    `gorm:"type:jsonb;default:'[]'" json:"projectManagerIds"`
	LeadSupervisorIDs     datatypes.JSONSlice[string]                    `gorm:"type:jsonb;default:'[]'" json:"leadSupervisorIds"`
	ConstructionStartDate string                                         `gorm:"size:10" json:"constructionStartDate"` // DD/MM/YYYY
	PlannedAcceptanceDate string                                         `gorm:"size:10" json:"plannedAcceptanceDate"` // DD/MM/YYYY
	CapitalPlanApproval   Approval                                       `gorm:"embedded;embeddedPrefix:capital_plan_" json:"capitalPlanApproval"`
	TechnicalPlanApproval Approval                                       `gorm:"embedded;embeddedPrefix:technical_plan_" json:"technicalPlanApproval"`
	BudgetApproval        Approval                                       `gorm:"embedded;embeddedPrefix:budget_" json:"budgetApproval"`
	DesignUnit            ContactUnit                                    `gorm:"embedded;embeddedPrefix:design_" json:"designUnit"`
	ConstructionUnit      ContactUnit                                    `gorm:"embedded;embeddedPrefix:construction_" json:"constructionUnit"`
	SupervisionUnit       ContactUnit                                    `gorm:"embedded;embeddedPrefix:supervision_" json:"supervisionUnit"`
	ProjectManagementUnit ProjectManagementContact                       `gorm:"embedded;embeddedPrefix:pm_unit_" json:"projectManagementUnit"`
	SupervisorA           SupervisorAContact                             `gorm:"embedded;embeddedPrefix:supervisor_a_" json:"supervisorA"`
	Reviews               datatypes.JSONType[map[string]ProjectReview]   `gorm:"type:jsonb" json:"reviews"`
	ScheduleSheetURL      string                                         `gorm:"size:2048" json:"scheduleSheetUrl,omitempty"`
	ScheduleSheetEditURL  string                                         `gorm:"size:2048" json:"scheduleSheetEditUrl,omitempty"`
	CreatedAt             time.Time                                      `json:"created_at"`
	UpdatedAt             time.Time                                      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt                                 `gorm:"index" json:"-"`
}

// ReviewMap returns the report-id -> review map, never nil.
func (p *Project) ReviewMap() map[string]ProjectReview {
	m := p.Reviews.Data()
	if m == nil {
		return map[string]ProjectReview{}
	}
	return m
}

// HasManager reports whether the user id is assigned as a project manager.
func (p *Project) HasManager(id string) bool {
	return containsID(p.ProjectManagerIDs, id)
}

// HasSupervisor reports whether the user id is assigned as a lead supervisor.
func (p *Project) HasSupervisor(id string) bool {
	return containsID(p.LeadSupervisorIDs, id)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
