package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"nexusjob_backend/internal/logger"
	"nexusjob_backend/internal/repositories"
	"nexusjob_backend/internal/services"
	"nexusjob_backend/internal/services/dto"
)

// Client actions.
const (
	ActionSubscribeChat   = "subscribe_chat"
	ActionUnsubscribeChat = "unsubscribe_chat"
	ActionOpenChat        = "open_chat"
	ActionCloseChat       = "close_chat"
	ActionSendMessage     = "send_message"
	ActionMarkRead        = "mark_read"
)

// Server event types.
const (
	EventApplicationUpdated = "application.updated"
	EventChatUpdated        = "chat.updated"
	EventMessageCreated     = "message.created"
	EventMessageHistory     = "message.history"
	EventError              = "error"
)

type Incoming struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// Outgoing is the server-to-client envelope. Type says which payload
// field is set.
type Outgoing struct {
	Type        string                   `json:"type"`
	ChatID      string                   `json:"chatId,omitempty"`
	Application *dto.ApplicationResponse `json:"application,omitempty"`
	Chat        *dto.ChatResponse        `json:"chat,omitempty"`
	Message     *dto.MessageResponse     `json:"message,omitempty"`
	Messages    *dto.MessageListResponse `json:"messages,omitempty"`
	Error       string                   `json:"error,omitempty"`
}

type chatRef struct {
	ChatID string `json:"chatId"`
}

type Client struct {
	UserID string
	Name   string
	Conn   *websocket.Conn
	Send   chan Outgoing

	manager     *Manager
	chatService services.ChatService
	db          *gorm.DB

	mu         sync.Mutex
	subscribed map[string]bool
	open       map[string]bool
}

func newClient(manager *Manager, conn *websocket.Conn, userID, name string) *Client {
	return &Client{
		UserID:      userID,
		Name:        name,
		Conn:        conn,
		Send:        make(chan Outgoing, 256),
		manager:     manager,
		chatService: manager.chatService,
		db:          manager.db,
		subscribed:  make(map[string]bool),
		open:        make(map[string]bool),
	}
}

// deliver enqueues without blocking; a client that cannot keep up is
// disconnected.
func (c *Client) deliver(out Outgoing) {
	select {
	case c.Send <- out:
	default:
		logger.Warn("ws: send buffer full, dropping client", "user_id", c.UserID)
		go func() { c.manager.unregister <- c }()
	}
}

func (c *Client) subscribedTo(chatID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subscribed[chatID]
}

func (c *Client) hasOpen(chatID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open[chatID]
}

func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(64 * 1024)

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WithError(err).Debug("ws: read error", "user_id", c.UserID)
			}
			return
		}

		var msg Incoming
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.deliver(Outgoing{Type: EventError, Error: "invalid message format"})
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	defer c.Conn.Close()
	for out := range c.Send {
		if err := c.Conn.WriteJSON(out); err != nil {
			logger.WithError(err).Debug("ws: write error", "user_id", c.UserID)
			return
		}
	}
	// Send channel closed by the manager.
	c.Conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (c *Client) handleMessage(msg Incoming) {
	switch msg.Action {

	case ActionSubscribeChat:
		ref, ok := c.decodeChatRef(msg.Data)
		if !ok {
			return
		}
		// Membership check doubles as existence check.
		if _, err := c.chatService.GetChat(c.db, ref.ChatID, c.UserID); err != nil {
			c.fail(ref.ChatID, err)
			return
		}
		c.mu.Lock()
		c.subscribed[ref.ChatID] = true
		c.mu.Unlock()

	case ActionUnsubscribeChat:
		ref, ok := c.decodeChatRef(msg.Data)
		if !ok {
			return
		}
		c.mu.Lock()
		delete(c.subscribed, ref.ChatID)
		delete(c.open, ref.ChatID)
		c.mu.Unlock()

	case ActionOpenChat:
		c.handleOpenChat(msg.Data)

	case ActionCloseChat:
		ref, ok := c.decodeChatRef(msg.Data)
		if !ok {
			return
		}
		c.mu.Lock()
		delete(c.open, ref.ChatID)
		c.mu.Unlock()

	case ActionSendMessage:
		var req dto.SendMessageRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.deliver(Outgoing{Type: EventError, Error: "invalid send_message payload"})
			return
		}
		// Delivery of the created message rides the event fan-out,
		// so the sender sees it exactly once.
		if _, err := c.chatService.SendMessage(c.db, c.UserID, c.Name, &req); err != nil {
			c.fail(req.ChatID, err)
			return
		}

	case ActionMarkRead:
		ref, ok := c.decodeChatRef(msg.Data)
		if !ok {
			return
		}
		if err := c.chatService.MarkMessagesAsRead(c.db, ref.ChatID, c.UserID); err != nil {
			c.fail(ref.ChatID, err)
		}

	default:
		c.deliver(Outgoing{Type: EventError, Error: "unknown action: " + msg.Action})
	}
}

// handleOpenChat marks the chat as on-screen: subscribes, replays the
// latest history page and clears the unread state, now and for every
// message that arrives while it stays open.
func (c *Client) handleOpenChat(data json.RawMessage) {
	ref, ok := c.decodeChatRef(data)
	if !ok {
		return
	}

	history, err := c.chatService.GetMessages(c.db, ref.ChatID, c.UserID, repositories.MessageCriteria{})
	if err != nil {
		c.fail(ref.ChatID, err)
		return
	}

	c.mu.Lock()
	c.subscribed[ref.ChatID] = true
	c.open[ref.ChatID] = true
	c.mu.Unlock()

	c.deliver(Outgoing{Type: EventMessageHistory, ChatID: ref.ChatID, Messages: history})

	if err := c.chatService.MarkMessagesAsRead(c.db, ref.ChatID, c.UserID); err != nil {
		logger.WithError(err).Warn("ws: mark-read on open failed", "chat_id", ref.ChatID, "user_id", c.UserID)
	}
}

func (c *Client) decodeChatRef(data json.RawMessage) (chatRef, bool) {
	var ref chatRef
	if err := json.Unmarshal(data, &ref); err != nil || ref.ChatID == "" {
		c.deliver(Outgoing{Type: EventError, Error: "payload requires chatId"})
		return ref, false
	}
	return ref, true
}

func (c *Client) fail(chatID string, err error) {
	logger.WithError(err).Debug("ws: action failed", "user_id", c.UserID, "chat_id", chatID)
	c.deliver(Outgoing{Type: EventError, ChatID: chatID, Error: err.Error()})
}
