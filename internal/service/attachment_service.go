package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
	"github.com/helpdesk-pro/helpdesk-service/internal/repository"
	apperrors "github.com/helpdesk-pro/helpdesk-service/pkg/util/errorutil"
)

// maxAttachmentBytes caps a single upload at 10 MiB.
const maxAttachmentBytes = 10 << 20

// AttachmentService records file metadata against tickets. Bytes live
// in external storage keyed by StorageKey; this service owns only the
// bookkeeping.
type AttachmentService struct {
	attachments repository.AttachmentRepository
	tickets     *TicketService
}

// AttachmentDependencies bundles the attachment service inputs.
type AttachmentDependencies struct {
	AttachmentRepo repository.AttachmentRepository
	TicketService  *TicketService
}

// AttachmentInput is the upload registration payload.
type AttachmentInput struct {
	FileName  string
	MimeType  string
	SizeBytes int64
}

// NewAttachmentService constructs the service.
func NewAttachmentService(deps AttachmentDependencies) *AttachmentService {
	return &AttachmentService{
		attachments: deps.AttachmentRepo,
		tickets:     deps.TicketService,
	}
}

// Register records an attachment on a ticket the actor may access and
// returns the row including its generated storage key.
func (s *AttachmentService) Register(ctx context.Context, actor *domain.User, ticketID string, input AttachmentInput) (*domain.Attachment, error) {
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, apperrors.NewValidationError("file name required", nil)
	}
	if input.SizeBytes <= 0 || input.SizeBytes > maxAttachmentBytes {
		return nil, apperrors.NewValidationError("file size out of range", map[string]any{"size_bytes": input.SizeBytes})
	}

	ticket, err := s.tickets.loadAccessible(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	attachment := &domain.Attachment{
		TicketID:   ticket.ID,
		UploaderID: actor.ID,
		FileName:   fileName,
		StorageKey: "tickets/" + ticket.ID + "/" + uuid.NewString(),
		MimeType:   input.MimeType,
		SizeBytes:  input.SizeBytes,
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return attachment, nil
}

// Resolve looks up attachment metadata by storage key, enforcing the
// same access rules as the owning ticket.
func (s *AttachmentService) Resolve(ctx context.Context, actor *domain.User, storageKey string) (*domain.Attachment, error) {
	attachment, err := s.attachments.GetByStorageKey(ctx, storageKey)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if _, err := s.tickets.loadAccessible(ctx, actor, attachment.TicketID); err != nil {
		return nil, err
	}
	return attachment, nil
}

// ListByTicket returns attachment metadata for a ticket the actor may
// access.
func (s *AttachmentService) ListByTicket(ctx context.Context, actor *domain.User, ticketID string) ([]domain.Attachment, error) {
	if _, err := s.tickets.loadAccessible(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	attachments, err := s.attachments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return attachments, nil
}
