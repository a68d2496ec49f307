package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
	"github.com/helpdesk-pro/helpdesk-service/internal/insight"
	apperrors "github.com/helpdesk-pro/helpdesk-service/pkg/util/errorutil"
)

// InsightService computes advisory annotations for a ticket on demand.
// Results are never persisted onto the ticket.
type InsightService struct {
	tickets   *TicketService
	annotator insight.Annotator
	logger    *zap.Logger
}

// InsightDependencies bundles insight service inputs.
type InsightDependencies struct {
	TicketService *TicketService
	Annotator     insight.Annotator
	Logger        *zap.Logger
}

// NewInsightService constructs the service.
func NewInsightService(deps InsightDependencies) *InsightService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightService{
		tickets:   deps.TicketService,
		annotator: deps.Annotator,
		logger:    logger,
	}
}

// Annotate analyzes the ticket for the given actor. Access follows the
// same rules as reading the ticket itself. An unavailable annotator
// surfaces as a 503, not a crash.
func (s *InsightService) Annotate(ctx context.Context, actor *domain.User, ticketID string) (*domain.Insight, error) {
	ticket, err := s.tickets.loadAccessible(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	result, err := s.annotator.Analyze(ctx, ticket)
	if err != nil {
		if errors.Is(err, insight.ErrUnavailable) {
			s.logger.Warn("insight annotator unavailable", zap.String("ticket_id", ticketID), zap.Error(err))
			return nil, apperrors.NewInsightUnavailable(err)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return result, nil
}
