package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var received []Event
	d.Subscribe(EventTicketCreated, func(_ context.Context, event Event) error {
		received = append(received, event)
		return nil
	})
	d.Subscribe(EventTicketStatusChanged, func(_ context.Context, event Event) error {
		t.Fatal("wrong event type delivered")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: 7})
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.Equal(t, int64(7), received[0].TicketID)
}

func TestDispatcherMultipleHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()

	calls := 0
	handler := func(context.Context, Event) error {
		calls++
		return nil
	}
	d.Subscribe(EventTicketAssigned, handler)
	d.Subscribe(EventTicketAssigned, handler)

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketAssigned}))
	assert.Equal(t, 2, calls)
}

func TestDispatcherHandlerErrorDoesNotStopDelivery(t *testing.T) {
	d := NewInMemoryDispatcher()

	delivered := false
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		return errors.New("handler failed")
	})
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCreated}))
	assert.True(t, delivered)
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketAttachmentDeleted}))
}
