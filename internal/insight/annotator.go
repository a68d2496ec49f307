// Package insight produces advisory metadata about tickets: sentiment,
// suggested priority and category, and resolution steps. Results are a
// read-only side channel; nothing here writes back into ticket fields.
package insight

import (
	"context"
	"errors"

	"github.com/helpdesk-pro/helpdesk-service/internal/config"
	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
)

// ErrUnavailable signals the annotation strategy could not produce a
// result. Callers omit the insight panel and allow retry; ticket
// operations proceed regardless.
var ErrUnavailable = errors.New("insight unavailable")

// Annotator analyzes a ticket and returns derived metadata.
type Annotator interface {
	Analyze(ctx context.Context, ticket *domain.Ticket) (*domain.Insight, error)
}

// New selects the annotation strategy from configuration. The keyword
// classifier is the default and the fallback when the model provider is
// selected but not configured.
func New(cfg config.InsightConfig) Annotator {
	if cfg.Provider == "model" && cfg.Endpoint != "" {
		return NewModelAnnotator(cfg)
	}
	return NewKeywordAnnotator()
}
