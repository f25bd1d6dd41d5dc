package coordinator

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/gorm"

	"nexusjob_backend/internal/events"
	"nexusjob_backend/internal/models"
	"nexusjob_backend/internal/models/chat"
	"nexusjob_backend/internal/services/dto"
)

type fakeProvisioner struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeProvisioner) EnsureChatForApplication(_ *gorm.DB, applicationID string) (*dto.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, applicationID)
	return &dto.ChatResponse{ApplicationID: applicationID}, nil
}

func (f *fakeProvisioner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeProvisioner) callSnapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingBroadcaster) PublishEvent(event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingBroadcaster) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestAcceptedApplicationProvisionsChat(t *testing.T) {
	bus := events.NewBus()
	chats := &fakeProvisioner{}
	broadcast := &recordingBroadcaster{}

	c := New(nil, chats, bus, broadcast)
	c.Start()
	defer c.Stop()

	bus.Publish(events.Event{
		Type: events.TypeApplicationUpdated,
		Application: &models.Application{
			BaseModel: models.BaseModel{ID: "app-1"},
			SeekerID:  "seek-1",
			Status:    models.ApplicationStatusAccepted,
		},
	})

	waitFor(t, func() bool { return chats.callCount() == 1 })
	waitFor(t, func() bool { return broadcast.count() == 1 })
	assert.Equal(t, []string{"app-1"}, chats.callSnapshot())
}

func TestNonAcceptedStatusDoesNotProvisionChat(t *testing.T) {
	bus := events.NewBus()
	chats := &fakeProvisioner{}
	broadcast := &recordingBroadcaster{}

	c := New(nil, chats, bus, broadcast)
	c.Start()
	defer c.Stop()

	for _, status := range []models.ApplicationStatus{
		models.ApplicationStatusPending,
		models.ApplicationStatusReviewing,
		models.ApplicationStatusRejected,
	} {
		bus.Publish(events.Event{
			Type:        events.TypeApplicationUpdated,
			Application: &models.Application{BaseModel: models.BaseModel{ID: "app-1"}, Status: status},
		})
	}

	// All three events must be forwarded, none provisioned.
	waitFor(t, func() bool { return broadcast.count() == 3 })
	assert.Equal(t, 0, chats.callCount())
}

func TestChatEventInvalidatesSessionCache(t *testing.T) {
	bus := events.NewBus()
	c := New(nil, &fakeProvisioner{}, bus, nil)
	c.Start()
	defer c.Stop()

	session := c.Acquire("seek-1", "Dana", models.UserRoleSeeker)
	session.StoreChats([]*dto.ChatResponse{{ID: "chat-1"}})
	_, valid := session.CachedChats()
	require.True(t, valid)

	bus.Publish(events.Event{
		Type: events.TypeChatUpdated,
		Chat: &chat.Chat{ID: "chat-1", EmployerID: "emp-1", SeekerID: "seek-1"},
	})

	waitFor(t, func() bool {
		_, valid := session.CachedChats()
		return !valid
	})
}

func TestApplicationEventInvalidatesApplicationCache(t *testing.T) {
	bus := events.NewBus()
	c := New(nil, &fakeProvisioner{}, bus, nil)
	c.Start()
	defer c.Stop()

	session := c.Acquire("seek-1", "Dana", models.UserRoleSeeker)
	session.StoreApplications([]*dto.ApplicationResponse{{ID: "app-1"}})

	bus.Publish(events.Event{
		Type: events.TypeApplicationUpdated,
		Application: &models.Application{
			BaseModel: models.BaseModel{ID: "app-1"},
			SeekerID:  "seek-1",
			Status:    models.ApplicationStatusReviewing,
		},
	})

	waitFor(t, func() bool {
		_, valid := session.CachedApplications()
		return !valid
	})
}

func TestAcquireReturnsSameSessionForUser(t *testing.T) {
	c := New(nil, &fakeProvisioner{}, events.NewBus(), nil)

	first := c.Acquire("user-1", "Dana", models.UserRoleSeeker)
	second := c.Acquire("user-1", "Dana", models.UserRoleSeeker)
	assert.Same(t, first, second)

	other := c.Acquire("user-2", "Alex", models.UserRoleEmployer)
	assert.NotSame(t, first, other)
}

func TestEndRemovesSession(t *testing.T) {
	c := New(nil, &fakeProvisioner{}, events.NewBus(), nil)

	c.Acquire("user-1", "Dana", models.UserRoleSeeker)
	_, ok := c.Get("user-1")
	require.True(t, ok)

	c.End("user-1")
	_, ok = c.Get("user-1")
	assert.False(t, ok)

	// Ending twice is harmless.
	c.End("user-1")
}

func TestSessionCacheRoundTrip(t *testing.T) {
	s := newSession("user-1", "Dana", models.UserRoleSeeker)

	_, valid := s.CachedJobs()
	assert.False(t, valid, "fresh session has no valid caches")

	s.StoreJobs([]*dto.JobResponse{{ID: "job-1"}})
	jobs, valid := s.CachedJobs()
	require.True(t, valid)
	require.Len(t, jobs, 1)

	s.InvalidateJobs()
	_, valid = s.CachedJobs()
	assert.False(t, valid)
}
