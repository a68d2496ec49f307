package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
)

// KeywordAnnotator is a deterministic, offline classifier. Identical
// ticket content always yields an identical insight.
type KeywordAnnotator struct{}

// NewKeywordAnnotator builds the classifier.
func NewKeywordAnnotator() *KeywordAnnotator {
	return &KeywordAnnotator{}
}

var negativeTerms = []string{
	"angry", "frustrated", "unacceptable", "terrible", "worst", "useless",
	"broken", "disappointed", "ridiculous", "furious", "still not",
}

var positiveTerms = []string{
	"thank", "great", "love", "appreciate", "awesome", "excellent", "happy",
}

var criticalTerms = []string{
	"outage", "data loss", "security", "breach", "production down",
	"cannot access", "crash", "all users",
}

var highTerms = []string{
	"urgent", "asap", "immediately", "blocked", "payment failed", "deadline",
}

var lowTerms = []string{
	"how do i", "question", "wondering", "feature request", "suggestion",
}

var categoryTerms = map[string][]string{
	"Technical": {"error", "crash", "bug", "login", "password", "server", "api", "timeout"},
	"Billing":   {"invoice", "payment", "charge", "refund", "billing", "subscription"},
	"Account":   {"account", "profile", "email change", "permissions", "access"},
}

var resolutionBlueprints = map[string][]string{
	"Technical": {
		"Reproduce the issue from the steps in the description",
		"Check recent deploys and service health for the affected component",
		"Ask the customer for logs or a screenshot if reproduction fails",
		"Confirm the fix with the customer before resolving",
	},
	"Billing": {
		"Verify the charge against the billing provider records",
		"Confirm the customer's plan and invoice history",
		"Issue a correction or refund if the charge is wrong",
	},
	"Account": {
		"Verify the requester owns the account in question",
		"Apply the requested account change",
		"Confirm the change with the customer",
	},
	"General": {
		"Acknowledge the request and clarify what the customer needs",
		"Route to the right specialist if it is outside first-line scope",
		"Follow up until the customer confirms resolution",
	},
}

// Analyze classifies the ticket's subject and description.
func (a *KeywordAnnotator) Analyze(ctx context.Context, ticket *domain.Ticket) (*domain.Insight, error) {
	if ticket == nil {
		return nil, fmt.Errorf("%w: no ticket content", ErrUnavailable)
	}
	text := strings.ToLower(ticket.Subject + " " + ticket.Description)

	sentiment := scoreSentiment(text)
	priority := suggestPriority(text)
	category := suggestCategory(text)

	blueprintKey := category
	if blueprintKey == "" {
		blueprintKey = domain.DefaultCategory
	}
	steps, ok := resolutionBlueprints[blueprintKey]
	if !ok {
		steps = resolutionBlueprints[domain.DefaultCategory]
	}

	out := &domain.Insight{
		TicketID:          ticket.ID,
		Sentiment:         sentiment,
		SuggestedPriority: priority,
		SuggestedCategory: category,
		ResolutionSteps:   steps,
		Observations:      observe(ticket, text),
		Source:            "keyword",
	}
	if category == "Technical" {
		out.RootCause = "Likely a product defect or service fault; see matched technical terms in the description."
	}
	return out, nil
}

func scoreSentiment(text string) domain.Sentiment {
	score := 0
	for _, term := range negativeTerms {
		if strings.Contains(text, term) {
			score--
		}
	}
	for _, term := range positiveTerms {
		if strings.Contains(text, term) {
			score++
		}
	}
	switch {
	case score < 0:
		return domain.Sentiment{Label: domain.SentimentNegative, Confidence: clampConfidence(60 - 10*score)}
	case score > 0:
		return domain.Sentiment{Label: domain.SentimentPositive, Confidence: clampConfidence(60 + 10*score)}
	default:
		return domain.Sentiment{Label: domain.SentimentNeutral, Confidence: 70}
	}
}

func suggestPriority(text string) domain.PrioritySuggestion {
	if term := firstMatch(text, criticalTerms); term != "" {
		return domain.PrioritySuggestion{
			Level:     domain.TicketPriorityCritical,
			Reasoning: fmt.Sprintf("mentions %q, which indicates a severe or wide impact", term),
		}
	}
	if term := firstMatch(text, highTerms); term != "" {
		return domain.PrioritySuggestion{
			Level:     domain.TicketPriorityHigh,
			Reasoning: fmt.Sprintf("mentions %q, which indicates time pressure", term),
		}
	}
	if term := firstMatch(text, lowTerms); term != "" {
		return domain.PrioritySuggestion{
			Level:     domain.TicketPriorityLow,
			Reasoning: fmt.Sprintf("reads as an inquiry (%q) rather than an incident", term),
		}
	}
	return domain.PrioritySuggestion{
		Level:     domain.TicketPriorityMedium,
		Reasoning: "no urgency or severity signals found in the ticket text",
	}
}

// categoryOrder fixes iteration order so classification is deterministic.
var categoryOrder = []string{"Technical", "Billing", "Account"}

func suggestCategory(text string) string {
	bestCategory := ""
	bestHits := 0
	for _, category := range categoryOrder {
		hits := 0
		for _, term := range categoryTerms[category] {
			if strings.Contains(text, term) {
				hits++
			}
		}
		if hits > bestHits {
			bestCategory = category
			bestHits = hits
		}
	}
	return bestCategory
}

func observe(ticket *domain.Ticket, text string) []string {
	var notes []string
	if len(strings.TrimSpace(ticket.Description)) < 40 {
		notes = append(notes, "Description is short; more detail may be needed before triage.")
	}
	if strings.Contains(text, "again") || strings.Contains(text, "still") {
		notes = append(notes, "Wording suggests a repeat contact about the same problem.")
	}
	if ticket.AssignedAgentID == nil && ticket.Status == domain.TicketStatusOpen {
		notes = append(notes, "Ticket is open and unassigned.")
	}
	return notes
}

func firstMatch(text string, terms []string) string {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return term
		}
	}
	return ""
}

func clampConfidence(v int) int {
	if v > 95 {
		return 95
	}
	if v < 50 {
		return 50
	}
	return v
}
