package dto

import (
	"time"

	"nexusjob_backend/internal/models/chat"
)

type SendMessageRequest struct {
	ChatID  string `json:"chatId" validate:"required,uuid"`
	Content string `json:"content" validate:"required,max=10000"`
}

type ChatResponse struct {
	ID            string     `json:"id"`
	ApplicationID string     `json:"applicationId"`
	EmployerID    string     `json:"employerId"`
	SeekerID      string     `json:"seekerId"`
	JobTitle      string     `json:"jobTitle"`
	LastMessage   string     `json:"lastMessage,omitempty"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
	UnreadCount   int        `json:"unreadCount"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func NewChatResponse(c *chat.Chat) *ChatResponse {
	return &ChatResponse{
		ID:            c.ID,
		ApplicationID: c.ApplicationID,
		EmployerID:    c.EmployerID,
		SeekerID:      c.SeekerID,
		JobTitle:      c.JobTitle,
		LastMessage:   c.LastMessage,
		LastMessageAt: c.LastMessageAt,
		UnreadCount:   c.UnreadCount,
		CreatedAt:     c.CreatedAt,
	}
}

type MessageResponse struct {
	ID         string    `json:"id"`
	ChatID     string    `json:"chatId"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sentAt"`
	Read       bool      `json:"read"`
}

func NewMessageResponse(m *chat.Message) *MessageResponse {
	return &MessageResponse{
		ID:         m.ID,
		ChatID:     m.ChatID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Content:    m.Content,
		SentAt:     m.SentAt,
		Read:       m.Read,
	}
}

// MessageListResponse carries one page of history plus the cursor for
// the next one. NextAfterSentAt/NextAfterSeq are only set when HasMore.
type MessageListResponse struct {
	Messages        []*MessageResponse `json:"messages"`
	HasMore         bool               `json:"hasMore"`
	NextAfterSentAt *time.Time         `json:"nextAfterSentAt,omitempty"`
	NextAfterSeq    int64              `json:"nextAfterSeq,omitempty"`
}
