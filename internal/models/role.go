package models

import "fmt"

// Role is the closed set of dashboard roles. The zero value is
// RolePending: a provisioned profile that has not been approved yet.
type Role string

const (
	RolePending        Role = ""
	RoleAdmin          Role = "Admin"
	RoleDepartmentHead Role = "DepartmentHead"
	RoleProjectManager Role = "ProjectManager"
	RoleLeadSupervisor Role = "LeadSupervisor"
)

// ParseRole validates a role string at the data-access boundary so that
// predicates never have to re-sanitize it.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePending, RoleAdmin, RoleDepartmentHead, RoleProjectManager, RoleLeadSupervisor:
		return Role(s), nil
	}
	return RolePending, fmt.Errorf("unknown role %q", s)
}

// Valid reports whether r is one of the known role values.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Granted reports whether the user has been approved into a real role.
func (r Role) Granted() bool {
	return r.Valid() && r != RolePending
}
