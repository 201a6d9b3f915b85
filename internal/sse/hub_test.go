package sse

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/dimitrije/maintenance-api/internal/notify"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(id string, companyID uuid.UUID, buffer int) *Client {
	return &Client{
		ID:        id,
		UserID:    uuid.New(),
		CompanyID: companyID,
		Send:      make(chan []byte, buffer),
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	assert.NotNil(t, hub)
	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
	assert.NotNil(t, hub.broadcast)
}

func TestHub_RegisterClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newClient("client-1", uuid.New(), 256)
	hub.Register(client)

	// Wait for registration to process
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	_, exists := hub.clients[client.ID]
	hub.mu.RUnlock()

	assert.True(t, exists)
}

func TestHub_UnregisterClient_ClosesSendChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newClient("client-1", uuid.New(), 256)
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.Unregister(client)
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	_, exists := hub.clients[client.ID]
	hub.mu.RUnlock()
	assert.False(t, exists)

	_, ok := <-client.Send
	assert.False(t, ok)
}

func TestHub_Handle_DeliversToSameCompany(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	companyID := uuid.New()
	requestID := uuid.New()
	client := newClient("client-1", companyID, 256)
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	err := hub.Handle(context.Background(), notify.Event{
		Type:      notify.EventStageChanged,
		CompanyID: companyID,
		RequestID: &requestID,
		Stage:     models.StageInProgress,
	})
	require.NoError(t, err)

	select {
	case msg := <-client.Send:
		var evt notify.Event
		require.NoError(t, json.Unmarshal(msg, &evt))
		assert.Equal(t, notify.EventStageChanged, evt.Type)
		assert.Equal(t, models.StageInProgress, evt.Stage)
		require.NotNil(t, evt.RequestID)
		assert.Equal(t, requestID, *evt.RequestID)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("did not receive message")
	}
}

func TestHub_Handle_NotToOtherCompany(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newClient("client-1", uuid.New(), 256)
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	_ = hub.Handle(context.Background(), notify.Event{Type: notify.EventRequestCreated, CompanyID: uuid.New()})

	select {
	case <-client.Send:
		t.Fatal("should not have received message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_WatchEquipment_FiltersFeed(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	companyID := uuid.New()
	watched := uuid.New()
	client := newClient("client-1", companyID, 256)
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	assert.True(t, hub.WatchEquipment(client.ID, client.UserID, watched))

	other := uuid.New()
	_ = hub.Handle(context.Background(), notify.Event{Type: notify.EventStageChanged, CompanyID: companyID, EquipmentID: &other})
	_ = hub.Handle(context.Background(), notify.Event{Type: notify.EventEquipmentScrapped, CompanyID: companyID, EquipmentID: &watched})

	select {
	case msg := <-client.Send:
		var evt notify.Event
		require.NoError(t, json.Unmarshal(msg, &evt))
		assert.Equal(t, notify.EventEquipmentScrapped, evt.Type)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("did not receive message")
	}

	select {
	case <-client.Send:
		t.Fatal("unwatched equipment leaked into feed")
	case <-time.After(50 * time.Millisecond):
	}

	hub.UnwatchEquipment(client.ID, client.UserID, watched)
	hub.mu.RLock()
	assert.Empty(t, client.Equipment)
	hub.mu.RUnlock()
}

func TestHub_WatchEquipment_NonexistentClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	time.Sleep(10 * time.Millisecond)

	assert.False(t, hub.WatchEquipment("nonexistent", uuid.New(), uuid.New()))
	hub.UnwatchEquipment("nonexistent", uuid.New(), uuid.New())
}

func TestHub_WatchEquipment_OtherUsersClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newClient("client-1", uuid.New(), 256)
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	assert.False(t, hub.WatchEquipment(client.ID, uuid.New(), uuid.New()))

	hub.mu.RLock()
	assert.Empty(t, client.Equipment)
	hub.mu.RUnlock()
}

func TestHub_Handle_FullBufferDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	companyID := uuid.New()
	client := newClient("client-1", companyID, 1)
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	client.Send <- []byte("fill")

	_ = hub.Handle(context.Background(), notify.Event{Type: notify.EventRequestCreated, CompanyID: companyID})
	time.Sleep(10 * time.Millisecond)

	<-client.Send

	select {
	case <-client.Send:
		t.Fatal("should not receive dropped message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_Handle_RespectsContext(t *testing.T) {
	hub := NewHub()
	for i := 0; i < cap(hub.broadcast); i++ {
		hub.broadcast <- notify.Event{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := hub.Handle(ctx, notify.Event{})

	assert.ErrorIs(t, err, context.Canceled)
}
