package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
	"github.com/helpdesk-pro/helpdesk-service/internal/persistence"
	"github.com/helpdesk-pro/helpdesk-service/internal/policy"
	"github.com/helpdesk-pro/helpdesk-service/internal/repository"
	apperrors "github.com/helpdesk-pro/helpdesk-service/pkg/util/errorutil"
)

// AnalyticsService aggregates dashboard metrics. Summaries are cached
// in Redis per report range; a cold or unreachable cache just means a
// fresh aggregation.
type AnalyticsService struct {
	tickets  repository.TicketRepository
	users    repository.UserRepository
	cache    *persistence.Redis
	slaLimit time.Duration
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// AnalyticsDependencies bundles the analytics service inputs.
type AnalyticsDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Cache      *persistence.Redis
	SLAWindow  time.Duration
	CacheTTL   time.Duration
	Logger     *zap.Logger
}

// Report ranges.
const (
	RangeAll     = "all"
	RangeWeekly  = "weekly"
	RangeMonthly = "monthly"
)

// AgentResolution is one row of the per-agent leaderboard.
type AgentResolution struct {
	AgentID   string `json:"agent_id"`
	AgentName string `json:"agent_name"`
	Resolved  int    `json:"resolved"`
}

// Summary is the dashboard aggregate for one report range.
type Summary struct {
	Range              string            `json:"range"`
	GeneratedAt        time.Time         `json:"generated_at"`
	TotalTickets       int               `json:"total_tickets"`
	StatusCounts       map[string]int    `json:"status_counts"`
	AgentResolutions   []AgentResolution `json:"agent_resolutions"`
	SLACompliancePct   float64           `json:"sla_compliance_pct"`
	AvgResolutionHours float64           `json:"avg_resolution_hours"`
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(deps AnalyticsDependencies) *AnalyticsService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		tickets:  deps.TicketRepo,
		users:    deps.UserRepo,
		cache:    deps.Cache,
		slaLimit: deps.SLAWindow,
		cacheTTL: deps.CacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// GetSummary computes (or serves from cache) the dashboard summary.
// Restricted to dashboard-capable roles.
func (s *AnalyticsService) GetSummary(ctx context.Context, actor *domain.User, reportRange string) (*Summary, error) {
	if !policy.CanViewRoute(actor.Role, policy.RouteDashboard) {
		return nil, apperrors.NewForbidden("role may not view the dashboard")
	}
	from, err := s.rangeStart(reportRange)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("analytics:summary:%s", reportRange)
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	summary, err := s.compute(ctx, reportRange, from)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, cacheKey, summary)
	return summary, nil
}

func (s *AnalyticsService) compute(ctx context.Context, reportRange string, from *time.Time) (*Summary, error) {
	statusCounts, err := s.tickets.CountByStatus(ctx, from)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byAgent, err := s.tickets.ResolvedCountByAgent(ctx, from)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	totalResolved, withinSLA, avgHours, err := s.tickets.ResolutionStats(ctx, s.slaLimit, from)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	summary := &Summary{
		Range:              reportRange,
		GeneratedAt:        s.now().UTC(),
		StatusCounts:       make(map[string]int, len(statusCounts)),
		AvgResolutionHours: avgHours,
	}
	for status, count := range statusCounts {
		summary.StatusCounts[string(status)] = count
		summary.TotalTickets += count
	}
	if totalResolved > 0 {
		summary.SLACompliancePct = float64(withinSLA) / float64(totalResolved) * 100
	}
	summary.AgentResolutions = s.resolveAgentNames(ctx, byAgent)
	return summary, nil
}

func (s *AnalyticsService) resolveAgentNames(ctx context.Context, byAgent map[string]int) []AgentResolution {
	rows := make([]AgentResolution, 0, len(byAgent))
	for agentID, resolved := range byAgent {
		row := AgentResolution{AgentID: agentID, Resolved: resolved}
		if agent, err := s.users.GetByID(ctx, agentID); err == nil {
			row.AgentName = agent.Name
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Resolved != rows[j].Resolved {
			return rows[i].Resolved > rows[j].Resolved
		}
		return rows[i].AgentID < rows[j].AgentID
	})
	return rows
}

func (s *AnalyticsService) rangeStart(reportRange string) (*time.Time, error) {
	switch reportRange {
	case RangeAll:
		return nil, nil
	case RangeWeekly:
		from := s.now().AddDate(0, 0, -7)
		return &from, nil
	case RangeMonthly:
		from := s.now().AddDate(0, -1, 0)
		return &from, nil
	default:
		return nil, apperrors.NewValidationError("unknown report range", map[string]any{"range": reportRange})
	}
}

func (s *AnalyticsService) fromCache(ctx context.Context, key string) *Summary {
	if s.cache == nil || s.cache.Client == nil {
		return nil
	}
	raw, err := s.cache.Client.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var summary Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		s.logger.Warn("discarding malformed cached summary", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &summary
}

func (s *AnalyticsService) toCache(ctx context.Context, key string, summary *Summary) {
	if s.cache == nil || s.cache.Client == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("summary cache write failed", zap.String("key", key), zap.Error(err))
	}
}
