package ws

import (
	"sync"

	"gorm.io/gorm"

	"nexusjob_backend/internal/events"
	"nexusjob_backend/internal/logger"
	"nexusjob_backend/internal/services"
	"nexusjob_backend/internal/services/dto"
)

// Manager owns the set of connected clients and fans domain events out
// to them. One client per user; a reconnect replaces the old socket.
type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	chatService services.ChatService
	db          *gorm.DB
	done        chan struct{}
}

func NewManager(chatService services.ChatService, db *gorm.DB) *Manager {
	return &Manager{
		clients:     make(map[string]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		chatService: chatService,
		db:          db,
		done:        make(chan struct{}),
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			if old, ok := m.clients[client.UserID]; ok {
				close(old.Send)
			}
			m.clients[client.UserID] = client
			total := len(m.clients)
			m.mu.Unlock()
			logger.Debug("ws: client registered", "user_id", client.UserID, "total", total)

		case client := <-m.unregister:
			m.mu.Lock()
			// Only drop the entry if it still points at this client;
			// a reconnect may already have replaced it.
			if current, ok := m.clients[client.UserID]; ok && current == client {
				close(client.Send)
				delete(m.clients, client.UserID)
			}
			total := len(m.clients)
			m.mu.Unlock()
			logger.Debug("ws: client unregistered", "user_id", client.UserID, "total", total)

		case <-m.done:
			m.mu.Lock()
			for _, client := range m.clients {
				close(client.Send)
			}
			m.clients = make(map[string]*Client)
			m.mu.Unlock()
			return
		}
	}
}

func (m *Manager) Stop() {
	close(m.done)
}

// PublishEvent delivers a domain event to the connected participants.
// Chat previews always reach a participant's chat list; message bodies
// only reach clients subscribed to that chat. A client that has the
// chat open gets the peer's messages marked read on its behalf.
//
// All sends happen under the read lock, so they cannot race the Run
// loop closing a Send channel: every close holds the write lock.
func (m *Manager) PublishEvent(event events.Event) {
	switch event.Type {
	case events.TypeApplicationUpdated:
		if event.Application == nil {
			return
		}
		out := Outgoing{Type: EventApplicationUpdated, Application: dto.NewApplicationResponse(event.Application)}
		m.broadcast(event.Participants(), out)

	case events.TypeChatUpdated:
		if event.Chat == nil {
			return
		}
		out := Outgoing{Type: EventChatUpdated, Chat: dto.NewChatResponse(event.Chat)}
		m.broadcast(event.Participants(), out)

	case events.TypeMessageCreated:
		if event.Chat == nil || event.Message == nil {
			return
		}
		chatID := event.Chat.ID
		preview := Outgoing{Type: EventChatUpdated, Chat: dto.NewChatResponse(event.Chat)}
		body := Outgoing{Type: EventMessageCreated, Message: dto.NewMessageResponse(event.Message)}

		m.mu.RLock()
		defer m.mu.RUnlock()
		for _, userID := range event.Participants() {
			client, ok := m.clients[userID]
			if !ok {
				continue
			}
			client.deliver(preview)
			if client.subscribedTo(chatID) {
				client.deliver(body)
			}
			if userID != event.Message.SenderID && client.hasOpen(chatID) {
				go m.markRead(chatID, userID)
			}
		}
	}
}

func (m *Manager) markRead(chatID, userID string) {
	if err := m.chatService.MarkMessagesAsRead(m.db, chatID, userID); err != nil {
		logger.WithError(err).Warn("ws: auto mark-read failed", "chat_id", chatID, "user_id", userID)
	}
}

func (m *Manager) broadcast(userIDs []string, out Outgoing) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, userID := range userIDs {
		if client, ok := m.clients[userID]; ok {
			client.deliver(out)
		}
	}
}

// IsClientConnected reports whether the user has a live socket.
func (m *Manager) IsClientConnected(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.clients[userID]
	return ok
}

func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}
