package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexusjob_backend/internal/models"
	"nexusjob_backend/internal/models/chat"
)

func TestBusDeliversInPublishOrder(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	defer sub.Unsubscribe()

	ids := []string{"a", "b", "c"}
	for _, id := range ids {
		bus.Publish(Event{
			Type:        TypeApplicationUpdated,
			Application: &models.Application{BaseModel: models.BaseModel{ID: id}},
		})
	}

	for _, want := range ids {
		select {
		case got := <-sub.C:
			require.NotNil(t, got.Application)
			assert.Equal(t, want, got.Application.ID)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestBusFansOutToAllSubscribers(t *testing.T) {
	bus := NewBus()
	first := bus.Subscribe()
	second := bus.Subscribe()
	defer first.Unsubscribe()
	defer second.Unsubscribe()

	bus.Publish(Event{Type: TypeChatUpdated})

	for _, sub := range []*Subscription{first, second} {
		select {
		case got := <-sub.C:
			assert.Equal(t, TypeChatUpdated, got.Type)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestBusUnsubscribeClosesChannelAndIsIdempotent(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()

	sub.Unsubscribe()
	sub.Unsubscribe()

	_, open := <-sub.C
	assert.False(t, open, "channel must be closed after Unsubscribe")

	// Publishing after unsubscribe must not panic or deliver.
	bus.Publish(Event{Type: TypeMessageCreated})
}

func TestBusDropsWhenSubscriberBufferIsFull(t *testing.T) {
	bus := NewBus()
	slow := bus.Subscribe()
	defer slow.Unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// One more than the buffer: the publisher must not block.
		for i := 0; i < subscriberBuffer+1; i++ {
			bus.Publish(Event{Type: TypeChatUpdated})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
	assert.Len(t, slow.C, subscriberBuffer)
}

func TestEventParticipants(t *testing.T) {
	chatEvent := Event{
		Type: TypeChatUpdated,
		Chat: &chat.Chat{EmployerID: "emp-1", SeekerID: "seek-1"},
	}
	assert.ElementsMatch(t, []string{"emp-1", "seek-1"}, chatEvent.Participants())

	appEvent := Event{
		Type:        TypeApplicationUpdated,
		Application: &models.Application{SeekerID: "seek-2"},
	}
	assert.Equal(t, []string{"seek-2"}, appEvent.Participants())

	assert.Nil(t, Event{Type: TypeMessageCreated}.Participants())
}
