package events

import (
	"nexusjob_backend/internal/models"
	"nexusjob_backend/internal/models/chat"
)

type Type string

const (
	TypeApplicationUpdated Type = "application.updated"
	TypeChatUpdated        Type = "chat.updated"
	TypeMessageCreated     Type = "message.created"
)

// Event is a tagged union: Type says which payload pointer is set.
// Exactly one of Application, Chat, Message is non-nil (Chat additionally
// rides along with Message events so consumers get the fresh preview).
type Event struct {
	Type        Type
	Application *models.Application
	Chat        *chat.Chat
	Message     *chat.Message
}

// Participants returns the user IDs this event is relevant to. Consumers
// still re-check membership before acting on it.
func (e Event) Participants() []string {
	switch {
	case e.Chat != nil:
		return []string{e.Chat.EmployerID, e.Chat.SeekerID}
	case e.Application != nil:
		return []string{e.Application.SeekerID}
	}
	return nil
}
