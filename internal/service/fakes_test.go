package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
	"github.com/helpdesk-pro/helpdesk-service/internal/repository"
)

// In-memory repository fakes. Each stores copies so tests observe only
// what a service explicitly wrote back.

type fakeTicketRepo struct {
	tickets map[string]domain.Ticket
	seq     int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]domain.Ticket)}
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	f.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", f.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	f.tickets[ticket.ID] = *ticket
	return nil
}

func (f *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := f.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	f.tickets[ticket.ID] = *ticket
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ticket
	return &copied, nil
}

func (f *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, ticket := range f.tickets {
		if filter.CreatorID != nil && ticket.CreatorID != *filter.CreatorID {
			continue
		}
		out = append(out, ticket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTicketRepo) CountByStatus(context.Context, *time.Time) (map[domain.TicketStatus]int, error) {
	counts := make(map[domain.TicketStatus]int)
	for _, ticket := range f.tickets {
		counts[ticket.Status]++
	}
	return counts, nil
}

func (f *fakeTicketRepo) ResolvedCountByAgent(context.Context, *time.Time) (map[string]int, error) {
	counts := make(map[string]int)
	for _, ticket := range f.tickets {
		if ticket.ResolvedAt != nil && ticket.AssignedAgentID != nil {
			counts[*ticket.AssignedAgentID]++
		}
	}
	return counts, nil
}

func (f *fakeTicketRepo) ResolutionStats(_ context.Context, window time.Duration, _ *time.Time) (int, int, float64, error) {
	total, within := 0, 0
	var hours float64
	for _, ticket := range f.tickets {
		if ticket.ResolvedAt == nil {
			continue
		}
		total++
		elapsed := ticket.ResolvedAt.Sub(ticket.CreatedAt)
		if elapsed <= window {
			within++
		}
		hours += elapsed.Hours()
	}
	if total == 0 {
		return 0, 0, 0, nil
	}
	return total, within, hours / float64(total), nil
}

type fakeReplyRepo struct {
	replies []domain.Reply
	seq     int
}

func (f *fakeReplyRepo) Create(_ context.Context, reply *domain.Reply) error {
	f.seq++
	reply.ID = fmt.Sprintf("reply-%d", f.seq)
	reply.CreatedAt = time.Now()
	f.replies = append(f.replies, *reply)
	return nil
}

func (f *fakeReplyRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Reply, error) {
	var out []domain.Reply
	for _, reply := range f.replies {
		if reply.TicketID == ticketID {
			out = append(out, reply)
		}
	}
	return out, nil
}

type fakeHistoryRepo struct {
	entries []domain.HistoryEntry
}

func (f *fakeHistoryRepo) Create(_ context.Context, entry *domain.HistoryEntry) error {
	entry.ID = fmt.Sprintf("history-%d", len(f.entries)+1)
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeHistoryRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.HistoryEntry, error) {
	var out []domain.HistoryEntry
	for _, entry := range f.entries {
		if entry.TicketID == ticketID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]domain.User
	seq   int
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.seq++
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", f.seq)
	}
	user.CreatedAt = time.Now()
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	var out []domain.User
	for _, user := range f.users {
		if len(filter.Roles) > 0 {
			match := false
			for _, role := range filter.Roles {
				if user.Role == role {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		if filter.Status != nil && user.Status != *filter.Status {
			continue
		}
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeNotificationRepo struct {
	notifications []domain.Notification
	seq           int
}

func (f *fakeNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	f.seq++
	notification.ID = fmt.Sprintf("notification-%d", f.seq)
	notification.CreatedAt = time.Now()
	f.notifications = append(f.notifications, *notification)
	return nil
}

func (f *fakeNotificationRepo) GetByID(_ context.Context, id string) (*domain.Notification, error) {
	for _, notification := range f.notifications {
		if notification.ID == id {
			copied := notification
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID string, _, _ int) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, notification := range f.notifications {
		if notification.RecipientID == recipientID {
			out = append(out, notification)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id string) error {
	for i := range f.notifications {
		if f.notifications[i].ID == id {
			f.notifications[i].IsRead = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeNotificationRepo) forRecipient(recipientID string) []domain.Notification {
	out, _ := f.ListByRecipient(context.Background(), recipientID, 0, 0)
	return out
}

type fakeAttachmentRepo struct {
	attachments []domain.Attachment
	seq         int
}

func (f *fakeAttachmentRepo) Create(_ context.Context, attachment *domain.Attachment) error {
	f.seq++
	attachment.ID = fmt.Sprintf("attachment-%d", f.seq)
	attachment.CreatedAt = time.Now()
	f.attachments = append(f.attachments, *attachment)
	return nil
}

func (f *fakeAttachmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Attachment, error) {
	var out []domain.Attachment
	for _, attachment := range f.attachments {
		if attachment.TicketID == ticketID {
			out = append(out, attachment)
		}
	}
	return out, nil
}

func (f *fakeAttachmentRepo) GetByStorageKey(_ context.Context, storageKey string) (*domain.Attachment, error) {
	for _, attachment := range f.attachments {
		if attachment.StorageKey == storageKey {
			copied := attachment
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}
