package chat

import "time"

// Message is immutable once created except for the Read flag, which
// transitions false to true exactly once and never reverts.
//
// Seq is a bigserial assigned at insert. Display order is (SentAt, Seq):
// strictly by send time, with insertion order breaking ties, so the
// total order is stable for pagination and last-message computation.
type Message struct {
	ID         string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Seq        int64     `gorm:"autoIncrement;uniqueIndex" json:"-"`
	ChatID     string    `gorm:"type:uuid;not null;index" json:"chatId"`
	SenderID   string    `gorm:"type:uuid;not null;index" json:"senderId"`
	SenderName string    `gorm:"not null" json:"senderName"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	SentAt     time.Time `gorm:"default:now();index" json:"sentAt"`
	Read       bool      `gorm:"default:false" json:"read"`
}

func (Message) TableName() string {
	return "chat.messages"
}
