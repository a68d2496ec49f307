package insight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-pro/helpdesk-service/internal/config"
	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
)

func modelConfig(endpoint string) config.InsightConfig {
	return config.InsightConfig{
		Provider:       "model",
		Endpoint:       endpoint,
		APIKey:         "test-key",
		Model:          "triage-1",
		TimeoutSeconds: 2,
	}
}

func chatCompletion(content string) string {
	return `{"choices":[{"message":{"role":"assistant","content":` + content + `}}]}`
}

func TestModelAnnotatorParsesResult(t *testing.T) {
	result := `"{\"sentiment\":{\"label\":\"Negative\",\"confidence\":88},` +
		`\"priority\":{\"level\":\"High\",\"reasoning\":\"payment is blocked\"},` +
		`\"category\":\"Billing\",\"root_cause\":\"gateway outage\",` +
		`\"resolution_steps\":[\"check gateway status\"],\"observations\":[\"repeat contact\"]}"`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletion(result)))
	}))
	defer server.Close()

	annotator := NewModelAnnotator(modelConfig(server.URL))
	insight, err := annotator.Analyze(context.Background(), &domain.Ticket{
		ID:          "t1",
		Subject:     "Payment failing",
		Description: "Card payments error out at checkout.",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SentimentNegative, insight.Sentiment.Label)
	assert.Equal(t, 88, insight.Sentiment.Confidence)
	assert.Equal(t, domain.TicketPriorityHigh, insight.SuggestedPriority.Level)
	assert.Equal(t, "Billing", insight.SuggestedCategory)
	assert.Equal(t, "gateway outage", insight.RootCause)
	assert.Equal(t, "model", insight.Source)
}

func TestModelAnnotatorUnknownLabelsFallBack(t *testing.T) {
	result := `"{\"sentiment\":{\"label\":\"Ecstatic\",\"confidence\":150},` +
		`\"priority\":{\"level\":\"Blocker\",\"reasoning\":\"\"}}"`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(chatCompletion(result)))
	}))
	defer server.Close()

	annotator := NewModelAnnotator(modelConfig(server.URL))
	insight, err := annotator.Analyze(context.Background(), &domain.Ticket{ID: "t2", Subject: "x", Description: "y"})
	require.NoError(t, err)

	assert.Equal(t, domain.SentimentNeutral, insight.Sentiment.Label)
	assert.Equal(t, domain.TicketPriorityMedium, insight.SuggestedPriority.Level)
}

func TestModelAnnotatorServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	annotator := NewModelAnnotator(modelConfig(server.URL))
	_, err := annotator.Analyze(context.Background(), &domain.Ticket{ID: "t3", Subject: "x", Description: "y"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestModelAnnotatorUnreachableEndpoint(t *testing.T) {
	annotator := NewModelAnnotator(modelConfig("http://127.0.0.1:1"))
	_, err := annotator.Analyze(context.Background(), &domain.Ticket{ID: "t4", Subject: "x", Description: "y"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestModelAnnotatorMalformedContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(chatCompletion(`"not json at all"`)))
	}))
	defer server.Close()

	annotator := NewModelAnnotator(modelConfig(server.URL))
	_, err := annotator.Analyze(context.Background(), &domain.Ticket{ID: "t5", Subject: "x", Description: "y"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewSelectsStrategy(t *testing.T) {
	_, isKeyword := New(config.InsightConfig{Provider: "keyword"}).(*KeywordAnnotator)
	assert.True(t, isKeyword)

	_, isModel := New(modelConfig("http://localhost:9999")).(*ModelAnnotator)
	assert.True(t, isModel)

	// Model provider without an endpoint degrades to the offline classifier.
	_, isKeyword = New(config.InsightConfig{Provider: "model"}).(*KeywordAnnotator)
	assert.True(t, isKeyword)
}
