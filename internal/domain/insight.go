package domain

// SentimentLabel classifies the tone of a ticket's content.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNeutral  SentimentLabel = "Neutral"
	SentimentNegative SentimentLabel = "Negative"
)

// Sentiment pairs a label with a 0-100 confidence score.
type Sentiment struct {
	Label      SentimentLabel `json:"label"`
	Confidence int            `json:"confidence"`
}

// PrioritySuggestion is an advisory priority with its reasoning.
type PrioritySuggestion struct {
	Level     TicketPriority `json:"level"`
	Reasoning string         `json:"reasoning"`
}

// Insight is derived, advisory metadata about a ticket. It is recomputed
// on demand and never written back into the ticket's own fields.
type Insight struct {
	TicketID          string             `json:"ticket_id"`
	Sentiment         Sentiment          `json:"sentiment"`
	SuggestedPriority PrioritySuggestion `json:"suggested_priority"`
	SuggestedCategory string             `json:"suggested_category,omitempty"`
	RootCause         string             `json:"root_cause,omitempty"`
	ResolutionSteps   []string           `json:"resolution_steps"`
	Observations      []string           `json:"observations"`
	Source            string             `json:"source"`
}
