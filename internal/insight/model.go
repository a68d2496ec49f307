package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/helpdesk-pro/helpdesk-service/internal/config"
	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
)

// ModelAnnotator delegates analysis to an OpenAI-compatible chat
// completion endpoint and parses the structured reply.
type ModelAnnotator struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// NewModelAnnotator builds the external strategy.
func NewModelAnnotator(cfg config.InsightConfig) *ModelAnnotator {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ModelAnnotator{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		client:   &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// modelResult is the JSON shape the prompt instructs the model to emit.
type modelResult struct {
	Sentiment struct {
		Label      string `json:"label"`
		Confidence int    `json:"confidence"`
	} `json:"sentiment"`
	Priority struct {
		Level     string `json:"level"`
		Reasoning string `json:"reasoning"`
	} `json:"priority"`
	Category        string   `json:"category"`
	RootCause       string   `json:"root_cause"`
	ResolutionSteps []string `json:"resolution_steps"`
	Observations    []string `json:"observations"`
}

const systemPrompt = `You are a support triage assistant. Analyze the ticket and reply with
strict JSON only, no prose, matching this schema:
{"sentiment":{"label":"Positive|Neutral|Negative","confidence":0-100},
"priority":{"level":"Low|Medium|High|Critical","reasoning":"..."},
"category":"...","root_cause":"...","resolution_steps":["..."],"observations":["..."]}`

// Analyze sends the ticket content to the model and maps the reply.
// Any transport, API, or parse failure is reported as ErrUnavailable.
func (a *ModelAnnotator) Analyze(ctx context.Context, ticket *domain.Ticket) (*domain.Insight, error) {
	if ticket == nil {
		return nil, fmt.Errorf("%w: no ticket content", ErrUnavailable)
	}

	payload := chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Subject: %s\n\n%s", ticket.Subject, ticket.Description)},
		},
		Temperature: 0.2,
		MaxTokens:   600,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: upstream status %d", ErrUnavailable, resp.StatusCode)
	}

	var completion chatResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if completion.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	return mapModelResult(ticket.ID, completion.Choices[0].Message.Content)
}

func mapModelResult(ticketID, content string) (*domain.Insight, error) {
	content = strings.TrimSpace(content)
	// Some models wrap JSON in a fenced block despite instructions.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var result modelResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &result); err != nil {
		return nil, fmt.Errorf("%w: malformed model reply: %v", ErrUnavailable, err)
	}

	out := &domain.Insight{
		TicketID: ticketID,
		Sentiment: domain.Sentiment{
			Label:      sentimentLabel(result.Sentiment.Label),
			Confidence: clampConfidence(result.Sentiment.Confidence),
		},
		SuggestedPriority: domain.PrioritySuggestion{
			Level:     priorityLevel(result.Priority.Level),
			Reasoning: result.Priority.Reasoning,
		},
		SuggestedCategory: result.Category,
		RootCause:         result.RootCause,
		ResolutionSteps:   result.ResolutionSteps,
		Observations:      result.Observations,
		Source:            "model",
	}
	if out.ResolutionSteps == nil {
		out.ResolutionSteps = []string{}
	}
	if out.Observations == nil {
		out.Observations = []string{}
	}
	return out, nil
}

func sentimentLabel(label string) domain.SentimentLabel {
	switch domain.SentimentLabel(label) {
	case domain.SentimentPositive, domain.SentimentNegative:
		return domain.SentimentLabel(label)
	default:
		return domain.SentimentNeutral
	}
}

func priorityLevel(level string) domain.TicketPriority {
	if domain.KnownPriority(domain.TicketPriority(level)) {
		return domain.TicketPriority(level)
	}
	return domain.TicketPriorityMedium
}
