package policy

import "github.com/helpdesk-pro/helpdesk-service/internal/domain"

// VisibleReplies returns the replies the role may see. Internal notes are
// dropped unless the role is staff. Total for any input, including nil.
func VisibleReplies(role domain.Role, replies []domain.Reply) []domain.Reply {
	if IsStaff(role) {
		return replies
	}
	filtered := make([]domain.Reply, 0, len(replies))
	for _, reply := range replies {
		if reply.IsInternal {
			continue
		}
		filtered = append(filtered, reply)
	}
	return filtered
}

// VisibleArticles returns the knowledge base articles the role may see.
// Internal articles are dropped for non-staff roles.
func VisibleArticles(role domain.Role, articles []domain.KBArticle) []domain.KBArticle {
	if IsStaff(role) {
		return articles
	}
	filtered := make([]domain.KBArticle, 0, len(articles))
	for _, article := range articles {
		if article.Visibility == domain.VisibilityInternal {
			continue
		}
		filtered = append(filtered, article)
	}
	return filtered
}

// RedactTicket hides staff-only columns from a ticket copy for non-staff
// roles. Row-level ticket access is scoped upstream by the listing query;
// hiding here is columnar only.
func RedactTicket(role domain.Role, ticket domain.Ticket) domain.Ticket {
	if IsStaff(role) {
		return ticket
	}
	ticket.AssignedAgentID = nil
	ticket.TimeSpentMinutes = nil
	return ticket
}
