package permissions

import "testing"

func TestCan(t *testing.T) {
	tests := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleAdmin, RunAutomation, true},
		{RoleSzef, RunAutomation, false},
		{RoleSzef, ManageUsers, true},
		{RoleManager, ManageUsers, false},
		{RoleManager, DeleteClients, true},
		{RoleManager, ViewAuditLog, true},
		{RoleProjectManager, ViewAllClients, true},
		{RoleProjectManager, DeleteClients, false},
		{RoleJuniorManager, ViewAllClients, false},
		{RoleJuniorManager, EditClients, true},
		{RolePracownik, EditClients, true},
		{RolePracownik, ViewReports, false},
		{Role("ghost"), EditClients, false},
		{RoleAdmin, Permission("fly"), false},
	}

	for _, tt := range tests {
		if got := Can(tt.role, tt.perm); got != tt.want {
			t.Errorf("Can(%s, %s) = %v, want %v", tt.role, tt.perm, got, tt.want)
		}
	}
}

func TestAtLeast(t *testing.T) {
	if !AtLeast(RoleAdmin, RoleManager) {
		t.Error("admin should outrank manager")
	}
	if AtLeast(RolePracownik, RoleJuniorManager) {
		t.Error("pracownik should not outrank junior_manager")
	}
	if !AtLeast(RoleManager, RoleManager) {
		t.Error("a role is at least itself")
	}
	if AtLeast(Role("unknown"), RolePracownik) {
		t.Error("unknown roles rank below everything")
	}
}

func TestNormalize(t *testing.T) {
	if Normalize("szef") != RoleSzef {
		t.Error("known role should be kept")
	}
	if Normalize("superuser") != RolePracownik {
		t.Error("unknown role should map to pracownik")
	}
}

func TestPermissionsFor(t *testing.T) {
	if got := len(PermissionsFor(RoleAdmin)); got != 8 {
		t.Errorf("admin should hold all 8 permissions, got %d", got)
	}
	got := PermissionsFor(RolePracownik)
	if len(got) != 1 || got[0] != EditClients {
		t.Errorf("pracownik permissions = %v", got)
	}
}
