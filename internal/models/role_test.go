package models

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"Admin", RoleAdmin, false},
		{"DepartmentHead", RoleDepartmentHead, false},
		{"ProjectManager", RoleProjectManager, false},
		{"LeadSupervisor", RoleLeadSupervisor, false},
		{"", RolePending, false},
		{"admin", "", true},
		{"Superuser", "", true},
	}
	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseRole(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRole(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRoleGranted(t *testing.T) {
	if RolePending.Granted() {
		t.Error("pending role must not count as granted")
	}
	for _, r := range []Role{RoleAdmin, RoleDepartmentHead, RoleProjectManager, RoleLeadSupervisor} {
		if !r.Granted() {
			t.Errorf("%q should be granted", r)
		}
	}
	if Role("Superuser").Granted() {
		t.Error("unknown role must not count as granted")
	}
}
