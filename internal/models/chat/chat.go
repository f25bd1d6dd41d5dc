package chat

import "time"

// Chat is a two-party conversation scoped to exactly one accepted
// application. The unique index on ApplicationID is the storage-level
// guarantee behind "at most one chat per application": concurrent
// create attempts collapse into one row, the loser re-fetches.
//
// LastMessage/LastMessageAt are denormalized for chat-list rendering and
// advisory only; the message history is authoritative. UnreadCount is a
// single counter shared by both participants; whoever opens the chat
// resets it for everyone.
type Chat struct {
	ID            string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ApplicationID string     `gorm:"type:uuid;not null;uniqueIndex" json:"applicationId"`
	EmployerID    string     `gorm:"type:uuid;not null;index" json:"employerId"`
	SeekerID      string     `gorm:"type:uuid;not null;index" json:"seekerId"`
	JobTitle      string     `gorm:"not null" json:"jobTitle"`
	LastMessage   string     `json:"lastMessage,omitempty"`
	LastMessageAt *time.Time `gorm:"index" json:"lastMessageAt,omitempty"`
	UnreadCount   int        `gorm:"default:0" json:"unreadCount"`
	CreatedAt     time.Time  `gorm:"default:now()" json:"createdAt"`
}

func (Chat) TableName() string {
	return "chat.chats"
}

// HasParticipant reports whether userID is one of the two parties.
func (c *Chat) HasParticipant(userID string) bool {
	return c.EmployerID == userID || c.SeekerID == userID
}

// OtherParticipant returns the peer of userID, or "" when userID is not
// a participant.
func (c *Chat) OtherParticipant(userID string) string {
	switch userID {
	case c.EmployerID:
		return c.SeekerID
	case c.SeekerID:
		return c.EmployerID
	}
	return ""
}
