package coordinator

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"nexusjob_backend/internal/events"
	"nexusjob_backend/internal/logger"
	"nexusjob_backend/internal/models"
	"nexusjob_backend/internal/services/dto"
)

// ChatProvisioner creates the chat for an accepted application.
// Satisfied by services.ChatService.
type ChatProvisioner interface {
	EnsureChatForApplication(db *gorm.DB, applicationID string) (*dto.ChatResponse, error)
}

// Broadcaster pushes an event to connected realtime clients.
// Satisfied by ws.Manager; a nil Broadcaster is allowed in tests.
type Broadcaster interface {
	PublishEvent(event events.Event)
}

const (
	sessionIdleTTL = 2 * time.Hour
	sweepInterval  = 10 * time.Minute
)

// Coordinator owns the session registry and is the single consumer of
// the event bus. It reacts to application acceptance by provisioning
// the chat, invalidates session caches touched by an event, and then
// forwards the event to the realtime layer.
type Coordinator struct {
	db          *gorm.DB
	chats       ChatProvisioner
	bus         *events.Bus
	broadcaster Broadcaster

	mu       sync.RWMutex
	sessions map[string]*Session

	sub  *events.Subscription
	done chan struct{}
	wg   sync.WaitGroup
}

func New(db *gorm.DB, chats ChatProvisioner, bus *events.Bus, broadcaster Broadcaster) *Coordinator {
	return &Coordinator{
		db:          db,
		chats:       chats,
		bus:         bus,
		broadcaster: broadcaster,
		sessions:    make(map[string]*Session),
		done:        make(chan struct{}),
	}
}

// Start subscribes to the bus and launches the event loop and the idle
// session sweeper.
func (c *Coordinator) Start() {
	c.sub = c.bus.Subscribe()
	c.wg.Add(2)
	go c.run()
	go c.sweep()
}

// Stop unsubscribes and waits for the loops to drain.
func (c *Coordinator) Stop() {
	close(c.done)
	if c.sub != nil {
		c.sub.Unsubscribe()
	}
	c.wg.Wait()
}

func (c *Coordinator) run() {
	defer c.wg.Done()
	for {
		select {
		case event, ok := <-c.sub.C:
			if !ok {
				return
			}
			c.handle(event)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handle(event events.Event) {
	switch event.Type {
	case events.TypeApplicationUpdated:
		app := event.Application
		if app == nil {
			return
		}
		if app.Status == models.ApplicationStatusAccepted {
			if _, err := c.chats.EnsureChatForApplication(c.db, app.ID); err != nil {
				logger.WithError(err).Error("coordinator: failed to provision chat for accepted application",
					"application_id", app.ID)
			}
		}
		c.invalidate(event.Participants(), func(s *Session) {
			s.InvalidateApplications()
		})
	case events.TypeChatUpdated, events.TypeMessageCreated:
		c.invalidate(event.Participants(), func(s *Session) {
			s.InvalidateChats()
		})
	}

	if c.broadcaster != nil {
		c.broadcaster.PublishEvent(event)
	}
}

func (c *Coordinator) invalidate(userIDs []string, fn func(*Session)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range userIDs {
		if s, ok := c.sessions[id]; ok {
			fn(s)
		}
	}
}

// Acquire returns the session for the user, creating it on first use.
// Subsequent calls refresh the idle clock.
func (c *Coordinator) Acquire(userID, name string, role models.UserRole) *Session {
	c.mu.RLock()
	s, ok := c.sessions[userID]
	c.mu.RUnlock()
	if ok {
		s.touch()
		return s
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.sessions[userID]; ok {
		s.touch()
		return s
	}
	s = newSession(userID, name, role)
	c.sessions[userID] = s
	logger.Debug("coordinator: session started", "user_id", userID, "role", role)
	return s
}

// Get returns the live session for the user, if any.
func (c *Coordinator) Get(userID string) (*Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sessions[userID]
	return s, ok
}

// End tears down the user's session. Safe to call when none exists.
func (c *Coordinator) End(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.sessions[userID]; ok {
		delete(c.sessions, userID)
		logger.Debug("coordinator: session ended", "user_id", userID)
	}
}

func (c *Coordinator) sweep() {
	defer c.wg.Done()
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-sessionIdleTTL)
			c.mu.Lock()
			for id, s := range c.sessions {
				if s.idleSince(cutoff) {
					delete(c.sessions, id)
					logger.Debug("coordinator: idle session expired", "user_id", id)
				}
			}
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}
