package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
	apperrors "github.com/helpdesk-pro/helpdesk-service/pkg/util/errorutil"
)

func newAnalyticsFixture(tickets *fakeTicketRepo, users *fakeUserRepo) *AnalyticsService {
	return NewAnalyticsService(AnalyticsDependencies{
		TicketRepo: tickets,
		UserRepo:   users,
		SLAWindow:  2 * time.Hour,
		CacheTTL:   time.Minute,
	})
}

func seedResolvedTicket(repo *fakeTicketRepo, agentID string, age time.Duration) {
	repo.seq++
	created := time.Now().Add(-24 * time.Hour)
	resolved := created.Add(age)
	id := agentID
	ticket := domain.Ticket{
		ID:              "seed-" + agentID + resolved.String(),
		Status:          domain.TicketStatusResolved,
		CreatorID:       "user-customer",
		AssignedAgentID: &id,
		CreatedAt:       created,
		ResolvedAt:      &resolved,
	}
	repo.tickets[ticket.ID] = ticket
}

func TestSummaryAggregates(t *testing.T) {
	tickets := newFakeTicketRepo()
	users := newFakeUserRepo(
		domain.User{ID: "agent-a", Name: "Agent A", Role: domain.RoleAgent, Status: domain.UserStatusActive},
	)

	// Two within the 2h window, one breaching it.
	seedResolvedTicket(tickets, "agent-a", time.Hour)
	seedResolvedTicket(tickets, "agent-a", 90*time.Minute)
	seedResolvedTicket(tickets, "agent-a", 5*time.Hour)
	tickets.tickets["open-1"] = domain.Ticket{ID: "open-1", Status: domain.TicketStatusOpen, CreatedAt: time.Now()}

	svc := newAnalyticsFixture(tickets, users)
	manager := &domain.User{ID: "u-manager", Role: domain.RoleManager}

	summary, err := svc.GetSummary(context.Background(), manager, RangeAll)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalTickets)
	assert.Equal(t, 3, summary.StatusCounts[string(domain.TicketStatusResolved)])
	assert.Equal(t, 1, summary.StatusCounts[string(domain.TicketStatusOpen)])
	assert.InDelta(t, 66.67, summary.SLACompliancePct, 0.01)
	assert.Greater(t, summary.AvgResolutionHours, 0.0)

	require.Len(t, summary.AgentResolutions, 1)
	assert.Equal(t, "Agent A", summary.AgentResolutions[0].AgentName)
	assert.Equal(t, 3, summary.AgentResolutions[0].Resolved)
}

func TestSummaryEmptyDataset(t *testing.T) {
	svc := newAnalyticsFixture(newFakeTicketRepo(), newFakeUserRepo())
	manager := &domain.User{ID: "u-manager", Role: domain.RoleManager}

	summary, err := svc.GetSummary(context.Background(), manager, RangeWeekly)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalTickets)
	assert.Zero(t, summary.SLACompliancePct)
	assert.Empty(t, summary.AgentResolutions)
}

func TestSummaryForbiddenBelowManager(t *testing.T) {
	svc := newAnalyticsFixture(newFakeTicketRepo(), newFakeUserRepo())

	_, err := svc.GetSummary(context.Background(), &domain.User{ID: "u-agent", Role: domain.RoleAgent}, RangeAll)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = svc.GetSummary(context.Background(), &domain.User{ID: "u-cust", Role: domain.RoleCustomer}, RangeAll)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestSummaryUnknownRange(t *testing.T) {
	svc := newAnalyticsFixture(newFakeTicketRepo(), newFakeUserRepo())
	manager := &domain.User{ID: "u-manager", Role: domain.RoleManager}

	_, err := svc.GetSummary(context.Background(), manager, "fortnightly")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}
