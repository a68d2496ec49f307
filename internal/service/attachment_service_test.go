package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
	apperrors "github.com/helpdesk-pro/helpdesk-service/pkg/util/errorutil"
)

func newAttachmentFixture(t *testing.T) (*AttachmentService, *ticketFixture) {
	t.Helper()
	fx := newTicketFixture(t)
	svc := NewAttachmentService(AttachmentDependencies{
		AttachmentRepo: &fakeAttachmentRepo{},
		TicketService:  fx.service,
	})
	return svc, fx
}

func TestRegisterAttachmentGeneratesStorageKey(t *testing.T) {
	svc, fx := newAttachmentFixture(t)
	ticket := fx.createTicket(t)

	attachment, err := svc.Register(context.Background(), &testCustomer, ticket.ID, AttachmentInput{
		FileName:  "invoice.pdf",
		MimeType:  "application/pdf",
		SizeBytes: 2048,
	})
	require.NoError(t, err)
	assert.Equal(t, "invoice.pdf", attachment.FileName)
	assert.Equal(t, testCustomer.ID, attachment.UploaderID)
	assert.True(t, strings.HasPrefix(attachment.StorageKey, "tickets/"+ticket.ID+"/"))
}

func TestRegisterAttachmentValidatesInput(t *testing.T) {
	svc, fx := newAttachmentFixture(t)
	ticket := fx.createTicket(t)

	_, err := svc.Register(context.Background(), &testCustomer, ticket.ID, AttachmentInput{
		FileName:  "   ",
		SizeBytes: 2048,
	})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = svc.Register(context.Background(), &testCustomer, ticket.ID, AttachmentInput{
		FileName:  "dump.bin",
		SizeBytes: maxAttachmentBytes + 1,
	})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestResolveAttachmentByStorageKey(t *testing.T) {
	svc, fx := newAttachmentFixture(t)
	ticket := fx.createTicket(t)
	created, err := svc.Register(context.Background(), &testCustomer, ticket.ID, AttachmentInput{
		FileName:  "screenshot.png",
		MimeType:  "image/png",
		SizeBytes: 4096,
	})
	require.NoError(t, err)

	found, err := svc.Resolve(context.Background(), &testAgent, created.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "screenshot.png", found.FileName)
}

func TestResolveAttachmentEnforcesTicketAccess(t *testing.T) {
	svc, fx := newAttachmentFixture(t)
	ticket := fx.createTicket(t)
	created, err := svc.Register(context.Background(), &testCustomer, ticket.ID, AttachmentInput{
		FileName:  "notes.txt",
		SizeBytes: 128,
	})
	require.NoError(t, err)

	stranger := domain.User{ID: "user-stranger", Role: domain.RoleCustomer, Status: domain.UserStatusActive}
	_, err = svc.Resolve(context.Background(), &stranger, created.StorageKey)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = svc.Resolve(context.Background(), &testCustomer, "tickets/nope/missing")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestListAttachmentsScopedToTicket(t *testing.T) {
	svc, fx := newAttachmentFixture(t)
	first := fx.createTicket(t)
	second := fx.createTicket(t)
	for _, name := range []string{"a.txt", "b.txt"} {
		_, err := svc.Register(context.Background(), &testCustomer, first.ID, AttachmentInput{FileName: name, SizeBytes: 10})
		require.NoError(t, err)
	}
	_, err := svc.Register(context.Background(), &testCustomer, second.ID, AttachmentInput{FileName: "c.txt", SizeBytes: 10})
	require.NoError(t, err)

	items, err := svc.ListByTicket(context.Background(), &testCustomer, first.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
