package permissions

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"sitetrack/internal/models"
)

func userWithRole(role models.Role) *models.User {
	return &models.User{ID: uuid.New(), Email: "u@example.com", Name: "U", Role: role}
}

func projectAssigning(managers, supervisors []string) *models.Project {
	return &models.Project{
		ID:                uuid.New(),
		Name:              "Alpha",
		ProjectManagerIDs: datatypes.JSONSlice[string](managers),
		LeadSupervisorIDs: datatypes.JSONSlice[string](supervisors),
	}
}

func TestRoleOnlyPredicates(t *testing.T) {
	cases := []struct {
		name string
		fn   func(*models.User) bool
		want map[models.Role]bool
	}{
		{"CanManageUsers", CanManageUsers, map[models.Role]bool{models.RoleAdmin: true}},
		{"CanFetchAllUsers", CanFetchAllUsers, map[models.Role]bool{models.RoleAdmin: true}},
		{"CanCreateProject", CanCreateProject, map[models.Role]bool{models.RoleAdmin: true, models.RoleDepartmentHead: true}},
		{"CanReassignPersonnel", CanReassignPersonnel, map[models.Role]bool{models.RoleAdmin: true, models.RoleDepartmentHead: true}},
		{"CanEditReport", CanEditReport, map[models.Role]bool{models.RoleAdmin: true}},
		{"CanDeleteReport", CanDeleteReport, map[models.Role]bool{models.RoleAdmin: true}},
		{"CanDeleteProject", CanDeleteProject, map[models.Role]bool{models.RoleAdmin: true}},
		{"CanApproveUsers", CanApproveUsers, map[models.Role]bool{models.RoleAdmin: true}},
	}

	roles := []models.Role{
		models.RoleAdmin, models.RoleDepartmentHead,
		models.RoleProjectManager, models.RoleLeadSupervisor, models.RolePending,
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.fn(nil) {
				t.Error("nil user must be denied")
			}
			if tc.fn(userWithRole(models.Role("SuperUser"))) {
				t.Error("unknown role must be denied")
			}
			for _, role := range roles {
				got := tc.fn(userWithRole(role))
				if got != tc.want[role] {
					t.Errorf("role %q: got %v, want %v", role, got, tc.want[role])
				}
			}
		})
	}
}

func TestCanAddReportRequiresAssignment(t *testing.T) {
	pm := userWithRole(models.RoleProjectManager)
	ls := userWithRole(models.RoleLeadSupervisor)
	admin := userWithRole(models.RoleAdmin)

	p := projectAssigning([]string{pm.ID.String()}, []string{ls.ID.String()})

	if !CanAddReport(pm, p) {
		t.Error("assigned manager must be able to add a report")
	}
	if !CanAddReport(ls, p) {
		t.Error("assigned supervisor must be able to add a report")
	}
	if CanAddReport(admin, p) {
		t.Error("admin does not file field reports")
	}

	other := projectAssigning(nil, nil)
	if CanAddReport(pm, other) {
		t.Error("unassigned manager must be denied")
	}
	if CanAddReport(ls, other) {
		t.Error("unassigned supervisor must be denied")
	}

	// Role/array mismatch: a supervisor listed in the manager array
	// does not qualify.
	crossed := projectAssigning([]string{ls.ID.String()}, []string{pm.ID.String()})
	if CanAddReport(ls, crossed) || CanAddReport(pm, crossed) {
		t.Error("assignment must match the user's own role")
	}

	if CanAddReport(nil, p) || CanAddReport(pm, nil) {
		t.Error("nil inputs must be denied")
	}
}

func TestCanEditProject(t *testing.T) {
	pm := userWithRole(models.RoleProjectManager)
	assigned := projectAssigning([]string{pm.ID.String()}, nil)
	unassigned := projectAssigning(nil, nil)

	if !CanEditProject(userWithRole(models.RoleAdmin), unassigned) {
		t.Error("admin edits any project")
	}
	if !CanEditProject(pm, assigned) {
		t.Error("assigned manager edits own project")
	}
	if CanEditProject(pm, unassigned) {
		t.Error("unassigned manager must be denied")
	}
	if CanEditProject(userWithRole(models.RoleDepartmentHead), assigned) {
		t.Error("department head does not edit core fields")
	}
	if CanEditProject(userWithRole(models.RoleLeadSupervisor), assigned) {
		t.Error("supervisor does not edit projects")
	}
}

func TestCanReviewReport(t *testing.T) {
	pm := userWithRole(models.RoleProjectManager)
	p := projectAssigning([]string{pm.ID.String()}, nil)

	if !CanReviewReport(pm, p) {
		t.Error("assigned manager reviews reports")
	}
	if CanReviewReport(userWithRole(models.RoleAdmin), p) {
		t.Error("admin does not review reports")
	}
	if CanReviewReport(userWithRole(models.RoleLeadSupervisor), p) {
		t.Error("supervisor does not review reports")
	}
	if CanReviewReport(pm, projectAssigning(nil, nil)) {
		t.Error("unassigned manager must be denied")
	}
}

func TestCanDeleteUserDeniesSelf(t *testing.T) {
	admin := userWithRole(models.RoleAdmin)

	if CanDeleteUser(admin, admin.ID) {
		t.Error("self-deletion must be denied even for admin")
	}
	if !CanDeleteUser(admin, uuid.New()) {
		t.Error("admin deletes other users")
	}
	if CanDeleteUser(userWithRole(models.RoleDepartmentHead), uuid.New()) {
		t.Error("non-admin never deletes users")
	}
	if CanDeleteUser(nil, uuid.New()) {
		t.Error("nil user must be denied")
	}
}

func TestPendingRoleHasNoAccess(t *testing.T) {
	pending := userWithRole(models.RolePending)
	p := projectAssigning([]string{pending.ID.String()}, []string{pending.ID.String()})

	if CanEditProject(pending, p) || CanAddReport(pending, p) || CanReviewReport(pending, p) {
		t.Error("pending users must be denied even when listed as personnel")
	}
}
