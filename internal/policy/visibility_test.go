package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
)

func TestVisibleRepliesFiltersInternalForCustomers(t *testing.T) {
	replies := []domain.Reply{
		{ID: "r1", Message: "public question"},
		{ID: "r2", Message: "internal note", IsInternal: true},
		{ID: "r3", Message: "public answer"},
	}

	customerView := VisibleReplies(domain.RoleCustomer, replies)
	assert.Len(t, customerView, 2)
	for _, reply := range customerView {
		assert.False(t, reply.IsInternal)
	}

	agentView := VisibleReplies(domain.RoleAgent, replies)
	assert.Len(t, agentView, 3)
}

func TestVisibleRepliesUnknownRoleTreatedAsCustomer(t *testing.T) {
	replies := []domain.Reply{{ID: "r1", IsInternal: true}}
	assert.Empty(t, VisibleReplies(domain.Role("Mystery"), replies))
}

func TestVisibleRepliesNilInput(t *testing.T) {
	assert.Empty(t, VisibleReplies(domain.RoleCustomer, nil))
}

func TestVisibleArticles(t *testing.T) {
	articles := []domain.KBArticle{
		{ID: "a1", Visibility: domain.VisibilityPublic},
		{ID: "a2", Visibility: domain.VisibilityInternal},
	}

	customerView := VisibleArticles(domain.RoleCustomer, articles)
	assert.Len(t, customerView, 1)
	assert.Equal(t, "a1", customerView[0].ID)

	managerView := VisibleArticles(domain.RoleManager, articles)
	assert.Len(t, managerView, 2)
}

func TestRedactTicketHidesStaffColumns(t *testing.T) {
	agentID := "user-agent"
	minutes := 45
	ticket := domain.Ticket{
		ID:               "t1",
		AssignedAgentID:  &agentID,
		TimeSpentMinutes: &minutes,
	}

	redacted := RedactTicket(domain.RoleCustomer, ticket)
	assert.Nil(t, redacted.AssignedAgentID)
	assert.Nil(t, redacted.TimeSpentMinutes)

	// Input must not be mutated.
	assert.NotNil(t, ticket.AssignedAgentID)

	full := RedactTicket(domain.RoleAgent, ticket)
	assert.Equal(t, &agentID, full.AssignedAgentID)
	assert.Equal(t, &minutes, full.TimeSpentMinutes)
}
