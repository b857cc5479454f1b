// Package policy loads the role-grant policy: which roles the user
// approval path may assign to a pending profile. Kept as configuration so
// the product can decide whether approval may ever mint an Admin.
package policy

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"sitetrack/internal/models"
)

type policyFile struct {
	GrantableRoles []string `yaml:"grantable_roles"`
}

type Registry struct {
	mu        sync.RWMutex
	grantable map[models.Role]bool
}

// Default returns the shipped policy: the three non-admin roles.
func Default() *Registry {
	return &Registry{grantable: map[models.Role]bool{
		models.RoleDepartmentHead: true,
		models.RoleProjectManager: true,
		models.RoleLeadSupervisor: true,
	}}
}

// LoadFromFile reads the yaml policy file. A missing path falls back to
// the default policy; a present but invalid file is an error.
func LoadFromFile(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse policy file: %w", err)
	}

	reg := &Registry{grantable: make(map[models.Role]bool, len(file.GrantableRoles))}
	for _, s := range file.GrantableRoles {
		role, err := models.ParseRole(s)
		if err != nil {
			return nil, fmt.Errorf("policy file: %w", err)
		}
		if role == models.RolePending {
			return nil, fmt.Errorf("policy file: pending is not a grantable role")
		}
		reg.grantable[role] = true
	}
	return reg, nil
}

// IsGrantable reports whether the approval path may assign the role.
func (r *Registry) IsGrantable(role models.Role) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.grantable[role]
}

// GrantableRoles lists the currently grantable roles.
func (r *Registry) GrantableRoles() []models.Role {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roles := make([]models.Role, 0, len(r.grantable))
	for role := range r.grantable {
		roles = append(roles, role)
	}
	return roles
}
