package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
)

func TestRankOrdering(t *testing.T) {
	ordered := []domain.Role{
		domain.RoleCustomer,
		domain.RoleAgent,
		domain.RoleManager,
		domain.RoleAdmin,
		domain.RoleSuperAdmin,
	}
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, Rank(ordered[i]), Rank(ordered[i-1]),
			"%s should outrank %s", ordered[i], ordered[i-1])
	}
}

func TestUnknownRoleFailsClosed(t *testing.T) {
	unknown := domain.Role("Root")
	assert.Equal(t, Rank(domain.RoleCustomer), Rank(unknown))
	assert.False(t, IsStaff(unknown))
	assert.False(t, CanChangeStatus(unknown))
	assert.False(t, CanAssignAgent(unknown))
	assert.False(t, CanManageUser(unknown, domain.RoleCustomer))
}

func TestRouteAccess(t *testing.T) {
	cases := []struct {
		role      domain.Role
		route     RouteID
		canAccess bool
	}{
		{domain.RoleCustomer, RouteTickets, true},
		{domain.RoleCustomer, RouteKB, true},
		{domain.RoleCustomer, RouteDashboard, false},
		{domain.RoleCustomer, RouteUsers, false},
		{domain.RoleAgent, RouteDashboard, false},
		{domain.RoleAgent, RouteUsers, false},
		{domain.RoleManager, RouteDashboard, true},
		{domain.RoleManager, RouteUsers, false},
		{domain.RoleAdmin, RouteDashboard, true},
		{domain.RoleAdmin, RouteUsers, true},
		{domain.RoleSuperAdmin, RouteUsers, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.canAccess, CanViewRoute(tc.role, tc.route),
			"%s on %s", tc.role, tc.route)
	}
}

func TestRouteAccessUnknownRoute(t *testing.T) {
	assert.False(t, CanViewRoute(domain.RoleSuperAdmin, RouteID("billing")))
}

func TestCanChangeStatusStaffOnly(t *testing.T) {
	assert.False(t, CanChangeStatus(domain.RoleCustomer))
	for _, role := range []domain.Role{domain.RoleAgent, domain.RoleManager, domain.RoleAdmin, domain.RoleSuperAdmin} {
		assert.True(t, CanChangeStatus(role), "%s", role)
	}
}

func TestCanAssignAgentAdminOnly(t *testing.T) {
	assert.False(t, CanAssignAgent(domain.RoleAgent))
	assert.False(t, CanAssignAgent(domain.RoleManager))
	assert.True(t, CanAssignAgent(domain.RoleAdmin))
	assert.True(t, CanAssignAgent(domain.RoleSuperAdmin))
}

func TestCanManageUserStrictlyDownward(t *testing.T) {
	assert.True(t, CanManageUser(domain.RoleManager, domain.RoleAgent))
	assert.True(t, CanManageUser(domain.RoleSuperAdmin, domain.RoleAdmin))
	assert.False(t, CanManageUser(domain.RoleAdmin, domain.RoleAdmin), "peers are out of reach")
	assert.False(t, CanManageUser(domain.RoleAgent, domain.RoleManager))
	assert.False(t, CanManageUser(domain.RoleSuperAdmin, domain.RoleSuperAdmin), "nobody manages themselves")
}
