package rbac

import "github.com/casbin/casbin/v2"

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleGuard   = "guard"
)

// loadPolicy installs the permission matrix. Managers inherit guard
// permissions, admins inherit manager permissions.
func loadPolicy(e *casbin.Enforcer) error {
	groupings := [][]string{
		{RoleAdmin, RoleManager},
		{RoleManager, RoleGuard},
	}

	policies := [][]string{
		// Guards operate on their own data; org scoping narrows it further
		// inside the services.
		{RoleGuard, "attendance", "read"},
		{RoleGuard, "attendance", "create"},
		{RoleGuard, "location", "read"},
		{RoleGuard, "location", "create"},
		{RoleGuard, "alert", "read"},
		{RoleGuard, "alert", "create"},
		{RoleGuard, "report", "read"},
		{RoleGuard, "shift", "read"},
		{RoleGuard, "guard", "read"},

		{RoleManager, "guard", "create"},
		{RoleManager, "guard", "update"},
		{RoleManager, "shift", "create"},
		{RoleManager, "shift", "update"},
		{RoleManager, "attendance", "export"},
		{RoleManager, "alert", "resolve"},

		{RoleAdmin, "guard", "delete"},
		{RoleAdmin, "shift", "delete"},
		{RoleAdmin, "attendance", "force_checkout"},
		{RoleAdmin, "user", "read"},
		{RoleAdmin, "user", "create"},
		{RoleAdmin, "user", "update"},
		{RoleAdmin, "user", "delete"},
	}

	for _, g := range groupings {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return err
		}
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}

	return nil
}
