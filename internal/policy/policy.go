package policy

import "github.com/helpdesk-pro/helpdesk-service/internal/domain"

// RouteID identifies a navigational area gated by role.
type RouteID string

const (
	RouteDashboard RouteID = "dashboard"
	RouteTickets   RouteID = "tickets"
	RouteKB        RouteID = "kb"
	RouteUsers     RouteID = "users"
)

// roleRanks is the total order used for delegation. Unknown roles are
// absent and rank 0, same as Customer (fail closed).
var roleRanks = map[domain.Role]int{
	domain.RoleCustomer:   0,
	domain.RoleAgent:      1,
	domain.RoleManager:    2,
	domain.RoleAdmin:      3,
	domain.RoleSuperAdmin: 4,
}

var routeRoles = map[RouteID][]domain.Role{
	RouteDashboard: {domain.RoleManager, domain.RoleAdmin, domain.RoleSuperAdmin},
	RouteTickets:   {domain.RoleCustomer, domain.RoleAgent, domain.RoleManager, domain.RoleAdmin, domain.RoleSuperAdmin},
	RouteKB:        {domain.RoleCustomer, domain.RoleAgent, domain.RoleManager, domain.RoleAdmin, domain.RoleSuperAdmin},
	RouteUsers:     {domain.RoleAdmin, domain.RoleSuperAdmin},
}

// AllRoutes lists every gated area in a stable order.
func AllRoutes() []RouteID {
	return []RouteID{RouteDashboard, RouteTickets, RouteKB, RouteUsers}
}

// Rank returns the role's position in the delegation order. Unrecognized
// roles rank 0.
func Rank(role domain.Role) int {
	return roleRanks[role]
}

// IsStaff reports whether the role is a recognized non-customer role.
func IsStaff(role domain.Role) bool {
	return Rank(role) > 0
}

// CanViewRoute reports whether the role may enter the given area.
// KB content is additionally filtered per-article by the visibility rules.
func CanViewRoute(role domain.Role, route RouteID) bool {
	allowed, ok := routeRoles[route]
	if !ok {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// CanChangeStatus reports whether the role may transition ticket status.
func CanChangeStatus(role domain.Role) bool {
	return IsStaff(role)
}

// CanAssignAgent reports whether the role may (re)assign tickets.
func CanAssignAgent(role domain.Role) bool {
	return role == domain.RoleAdmin || role == domain.RoleSuperAdmin
}

// CanManageUser reports whether actor may manage target: true iff the
// actor's rank strictly exceeds the target's. Peers and superiors are
// never manageable, including a role managing itself.
func CanManageUser(actor, target domain.Role) bool {
	return Rank(actor) > Rank(target)
}
