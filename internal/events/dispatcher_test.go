package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesHandlersInOrder(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	var order []string
	dispatcher.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		order = append(order, "first")
		return nil
	})
	dispatcher.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketCreated}))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	assert.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketAssigned}))
}

func TestPublishContinuesPastFailingHandler(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	boom := errors.New("boom")
	ran := false
	dispatcher.Subscribe(EventTicketCreated, func(context.Context, Event) error { return boom })
	dispatcher.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		ran = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventTicketCreated})
	assert.ErrorIs(t, err, boom)
	assert.True(t, ran, "a failing handler must not starve the rest")
}

func TestSubscribeIsTypeScoped(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	called := false
	dispatcher.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketReplyAdded}))
	assert.False(t, called)
}
