package insight

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
)

func TestKeywordNegativeSentimentAndCriticalPriority(t *testing.T) {
	annotator := NewKeywordAnnotator()
	ticket := &domain.Ticket{
		ID:          "t1",
		Subject:     "Production down, this is unacceptable",
		Description: "All users cannot access the service. We are furious, fix it now.",
		Status:      domain.TicketStatusOpen,
	}

	result, err := annotator.Analyze(context.Background(), ticket)
	require.NoError(t, err)

	assert.Equal(t, domain.SentimentNegative, result.Sentiment.Label)
	assert.GreaterOrEqual(t, result.Sentiment.Confidence, 60)
	assert.LessOrEqual(t, result.Sentiment.Confidence, 95)
	assert.Equal(t, domain.TicketPriorityCritical, result.SuggestedPriority.Level)
	assert.NotEmpty(t, result.SuggestedPriority.Reasoning)
	assert.Equal(t, "keyword", result.Source)
}

func TestKeywordPositiveInquiry(t *testing.T) {
	annotator := NewKeywordAnnotator()
	ticket := &domain.Ticket{
		ID:          "t2",
		Subject:     "Question about exporting reports",
		Description: "Thank you for the great product. How do I export my monthly reports to CSV?",
	}

	result, err := annotator.Analyze(context.Background(), ticket)
	require.NoError(t, err)

	assert.Equal(t, domain.SentimentPositive, result.Sentiment.Label)
	assert.Equal(t, domain.TicketPriorityLow, result.SuggestedPriority.Level)
}

func TestKeywordCategoryAndResolutionSteps(t *testing.T) {
	annotator := NewKeywordAnnotator()
	ticket := &domain.Ticket{
		ID:          "t3",
		Subject:     "Wrong charge on my invoice",
		Description: "My payment was charged twice this billing cycle, I need a refund.",
	}

	result, err := annotator.Analyze(context.Background(), ticket)
	require.NoError(t, err)

	assert.Equal(t, "Billing", result.SuggestedCategory)
	assert.NotEmpty(t, result.ResolutionSteps)
}

func TestKeywordNeutralFallback(t *testing.T) {
	annotator := NewKeywordAnnotator()
	ticket := &domain.Ticket{
		ID:          "t4",
		Subject:     "Misc",
		Description: "Please review the attached document at your convenience sometime soon.",
	}

	result, err := annotator.Analyze(context.Background(), ticket)
	require.NoError(t, err)

	assert.Equal(t, domain.SentimentNeutral, result.Sentiment.Label)
	assert.Equal(t, domain.TicketPriorityMedium, result.SuggestedPriority.Level)
	assert.Empty(t, result.SuggestedCategory)
	assert.NotEmpty(t, result.ResolutionSteps, "uncategorized tickets still get the general playbook")
}

func TestKeywordDeterministic(t *testing.T) {
	annotator := NewKeywordAnnotator()
	ticket := &domain.Ticket{
		ID:          "t5",
		Subject:     "Login error after password reset",
		Description: "I get a server error every time I try to log in. Payment is also blocked.",
		Status:      domain.TicketStatusOpen,
	}

	first, err := annotator.Analyze(context.Background(), ticket)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := annotator.Analyze(context.Background(), ticket)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestKeywordObservations(t *testing.T) {
	annotator := NewKeywordAnnotator()
	ticket := &domain.Ticket{
		ID:          "t6",
		Subject:     "Broken again",
		Description: "Still broken.",
		Status:      domain.TicketStatusOpen,
	}

	result, err := annotator.Analyze(context.Background(), ticket)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Observations)
}

func TestKeywordNilTicket(t *testing.T) {
	annotator := NewKeywordAnnotator()
	_, err := annotator.Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}
