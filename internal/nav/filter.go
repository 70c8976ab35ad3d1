package nav

import (
	"slices"

	"github.com/zucitech/portal-client/internal/access"
	"github.com/zucitech/portal-client/internal/entity"
)

// DefaultItems is the portal navigation catalog. Entries without a
// permission or role restriction are visible to everyone.
func DefaultItems() []entity.NavItem {
	return []entity.NavItem{
		{ID: "dashboard", Label: "Dashboard", Icon: "LayoutDashboard", Path: "/dashboard"},
		{ID: "users", Label: "User Management", Icon: "Users", Path: "/users", Permission: "user_view"},
		{ID: "roles", Label: "Roles Management", Icon: "Shield", Path: "/roles", Roles: []string{entity.RoleAdmin}},
		{ID: "reports", Label: "Reports", Icon: "BarChart3", Path: "/reports", Permission: "reports_view"},
	}
}

// Filter returns the sub-sequence of entries the current identity may
// open, in the original order. An entry whose role list names the
// admin role is admin-only, which is what hides it from managers.
func Filter(items []entity.NavItem, eval *access.Evaluator) []entity.NavItem {
	visible := make([]entity.NavItem, 0, len(items))

	for _, item := range items {
		req := access.Requirement{
			Permission: item.Permission,
			Roles:      item.Roles,
			AdminOnly:  slices.Contains(item.Roles, entity.RoleAdmin),
		}

		if eval.Check(req) {
			visible = append(visible, item)
		}
	}

	return visible
}
