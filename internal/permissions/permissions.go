// Package permissions holds the role/permission policy as pure, stateless
// predicates. Every predicate denies by default: a nil user, a pending
// role, or an unknown role value always yields false.
package permissions

import (
	"github.com/google/uuid"

	"sitetrack/internal/models"
)

// CanManageUsers reports whether the user may view, edit and delete any
// user account.
func CanManageUsers(u *models.User) bool {
	return hasRole(u, models.RoleAdmin)
}

// CanFetchAllUsers reports whether the user may load the full user
// directory. Everyone else only ever sees their own profile.
func CanFetchAllUsers(u *models.User) bool {
	return hasRole(u, models.RoleAdmin)
}

// CanCreateProject reports whether the user may register a new project.
func CanCreateProject(u *models.User) bool {
	return hasRole(u, models.RoleAdmin, models.RoleDepartmentHead)
}

// CanEditProject reports whether the user may edit a project's core
// fields. Assigned project managers may edit their own projects;
// personnel reassignment is gated separately by CanReassignPersonnel.
func CanEditProject(u *models.User, p *models.Project) bool {
	if u == nil || p == nil || !u.Role.Valid() {
		return false
	}
	if u.Role == models.RoleAdmin {
		return true
	}
	return u.Role == models.RoleProjectManager && p.HasManager(u.ID.String())
}

// CanReassignPersonnel reports whether the user may change a project's
// manager/supervisor assignments.
func CanReassignPersonnel(u *models.User) bool {
	return hasRole(u, models.RoleAdmin, models.RoleDepartmentHead)
}

// CanAddReport reports whether the user may file a daily report against
// the project. Only assigned managers and supervisors qualify; admins do
// not file field reports.
func CanAddReport(u *models.User, p *models.Project) bool {
	if u == nil || p == nil || !u.Role.Valid() {
		return false
	}
	switch u.Role {
	case models.RoleProjectManager:
		return p.HasManager(u.ID.String())
	case models.RoleLeadSupervisor:
		return p.HasSupervisor(u.ID.String())
	}
	return false
}

// CanEditReport reports whether the user may edit an existing report.
// Admin only. TODO(policy): product has flip-flopped between this and
// "assigned supervisor may edit"; confirm before the next release.
func CanEditReport(u *models.User) bool {
	return hasRole(u, models.RoleAdmin)
}

// CanDeleteReport reports whether the user may delete an existing report.
// Admin only, same pending policy confirmation as CanEditReport.
func CanDeleteReport(u *models.User) bool {
	return hasRole(u, models.RoleAdmin)
}

// CanReviewReport reports whether the user may review/comment on reports
// of the project.
func CanReviewReport(u *models.User, p *models.Project) bool {
	if u == nil || p == nil || !u.Role.Valid() {
		return false
	}
	return u.Role == models.RoleProjectManager && p.HasManager(u.ID.String())
}

// CanDeleteProject reports whether the user may delete a project and
// cascade-delete its reports.
func CanDeleteProject(u *models.User) bool {
	return hasRole(u, models.RoleAdmin)
}

// CanDeleteUser reports whether the user may delete the target user
// account. Self-deletion is always denied, regardless of role.
func CanDeleteUser(u *models.User, targetID uuid.UUID) bool {
	if !hasRole(u, models.RoleAdmin) {
		return false
	}
	return u.ID != targetID
}

// CanApproveUsers reports whether the user may grant a role to a pending
// profile.
func CanApproveUsers(u *models.User) bool {
	return hasRole(u, models.RoleAdmin)
}

func hasRole(u *models.User, roles ...models.Role) bool {
	if u == nil || !u.Role.Granted() {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
