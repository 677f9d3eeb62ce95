package permissions

type Role string
type Permission string

const (
	RoleAdmin          Role = "admin"
	RoleSzef           Role = "szef"
	RoleManager        Role = "manager"
	RoleProjectManager Role = "project_manager"
	RoleJuniorManager  Role = "junior_manager"
	RolePracownik      Role = "pracownik"
)

const (
	ViewAllClients Permission = "view_all_clients"
	EditClients    Permission = "edit_clients"
	DeleteClients  Permission = "delete_clients"
	AssignOwner    Permission = "assign_owner"
	ViewReports    Permission = "view_reports"
	ManageUsers    Permission = "manage_users"
	ViewAuditLog   Permission = "view_audit_log"
	RunAutomation  Permission = "run_automation"
)

// levels orders roles; higher outranks lower
var levels = map[Role]int{
	RolePracownik:      1,
	RoleJuniorManager:  2,
	RoleProjectManager: 3,
	RoleManager:        4,
	RoleSzef:           5,
	RoleAdmin:          6,
}

// minimum role level per permission
var required = map[Permission]int{
	EditClients:    levels[RolePracownik],
	ViewAllClients: levels[RoleProjectManager],
	AssignOwner:    levels[RoleProjectManager],
	ViewReports:    levels[RoleProjectManager],
	DeleteClients:  levels[RoleManager],
	ViewAuditLog:   levels[RoleManager],
	ManageUsers:    levels[RoleSzef],
	RunAutomation:  levels[RoleAdmin],
}

// Level returns the rank of a role, 0 for unknown roles
func Level(role Role) int {
	return levels[role]
}

func Can(role Role, p Permission) bool {
	need, ok := required[p]
	if !ok {
		return false
	}
	lvl := Level(role)
	return lvl > 0 && lvl >= need
}

// AtLeast reports whether role ranks at or above floor
func AtLeast(role, floor Role) bool {
	lvl := Level(role)
	return lvl > 0 && lvl >= Level(floor)
}

// Normalize maps unknown role strings to the lowest role
func Normalize(role string) Role {
	r := Role(role)
	if _, ok := levels[r]; ok {
		return r
	}
	return RolePracownik
}

// IsValid reports whether the string names a known role
func IsValid(role string) bool {
	_, ok := levels[Role(role)]
	return ok
}

// PermissionsFor lists everything a role may do, for the session payload
func PermissionsFor(role Role) []Permission {
	all := []Permission{ViewAllClients, EditClients, DeleteClients, AssignOwner, ViewReports, ManageUsers, ViewAuditLog, RunAutomation}
	var out []Permission
	for _, p := range all {
		if Can(role, p) {
			out = append(out, p)
		}
	}
	return out
}
