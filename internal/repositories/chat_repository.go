package repositories

import (
	"errors"
	"time"

	"nexusjob_backend/internal/models/chat"

	"gorm.io/gorm"
)

// MessageCriteria is a cursor over the (sent_at, seq) total order.
// Zero values mean "from the beginning".
type MessageCriteria struct {
	AfterSentAt *time.Time `form:"after_sent_at"`
	AfterSeq    int64      `form:"after_seq"`
	Limit       int        `form:"limit" binding:"omitempty,min=1,max=100"`
}

type ChatRepository interface {
	// Chat rows
	CreateChat(db *gorm.DB, c *chat.Chat) error
	FindChatByID(db *gorm.DB, id string) (*chat.Chat, error)
	FindChatByApplication(db *gorm.DB, applicationID string) (*chat.Chat, error)
	FindChatsForUser(db *gorm.DB, userID string) ([]chat.Chat, error)
	UpdatePreview(db *gorm.DB, chatID, content string, at time.Time) error
	ResetUnread(db *gorm.DB, chatID string) error

	// Messages
	CreateMessage(db *gorm.DB, m *chat.Message) error
	FindMessageByID(db *gorm.DB, id string) (*chat.Message, error)
	FindMessages(db *gorm.DB, chatID string, criteria MessageCriteria) ([]chat.Message, bool, error)
	MarkMessagesRead(db *gorm.DB, chatID, readerID string) (int64, error)
	CountUnread(db *gorm.DB, chatID, userID string) (int64, error)
}

type ChatRepositoryImpl struct{}

func NewChatRepository() ChatRepository {
	return &ChatRepositoryImpl{}
}

// CreateChat inserts a chat row. The unique index on application_id is
// the invariant "at most one chat per application": a lost race surfaces
// as ErrDuplicateKey and the caller re-fetches the winner's row.
func (r *ChatRepositoryImpl) CreateChat(db *gorm.DB, c *chat.Chat) error {
	if err := db.Create(c).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *ChatRepositoryImpl) FindChatByID(db *gorm.DB, id string) (*chat.Chat, error) {
	var c chat.Chat
	if err := db.First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrChatNotFound)
	}
	return &c, nil
}

// FindChatByApplication returns (nil, nil) when no chat exists yet.
// Absence is an expected branch of the create-if-absent flow, not an
// error.
func (r *ChatRepositoryImpl) FindChatByApplication(db *gorm.DB, applicationID string) (*chat.Chat, error) {
	var c chat.Chat
	err := db.First(&c, "application_id = ?", applicationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// FindChatsForUser lists every chat the user participates in, most
// recently active first. Chats that have no messages yet sort after
// those that do.
func (r *ChatRepositoryImpl) FindChatsForUser(db *gorm.DB, userID string) ([]chat.Chat, error) {
	var chats []chat.Chat
	err := db.
		Where("employer_id = ? OR seeker_id = ?", userID, userID).
		Order("last_message_at DESC NULLS LAST").
		Order("created_at DESC").
		Find(&chats).Error
	return chats, err
}

// UpdatePreview refreshes the denormalized last-message fields and bumps
// the shared unread counter. Last-write-wins is fine here: the fields
// are advisory, the message history is authoritative.
func (r *ChatRepositoryImpl) UpdatePreview(db *gorm.DB, chatID, content string, at time.Time) error {
	return db.Model(&chat.Chat{}).Where("id = ?", chatID).Updates(map[string]interface{}{
		"last_message":    content,
		"last_message_at": at,
		"unread_count":    gorm.Expr("unread_count + 1"),
	}).Error
}

func (r *ChatRepositoryImpl) ResetUnread(db *gorm.DB, chatID string) error {
	return db.Model(&chat.Chat{}).Where("id = ?", chatID).Update("unread_count", 0).Error
}

func (r *ChatRepositoryImpl) CreateMessage(db *gorm.DB, m *chat.Message) error {
	return db.Create(m).Error
}

func (r *ChatRepositoryImpl) FindMessageByID(db *gorm.DB, id string) (*chat.Message, error) {
	var m chat.Message
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrMessageNotFound)
	}
	return &m, nil
}

// FindMessages pages through a chat's history in (sent_at, seq) order.
// The second return value reports whether more rows exist past the page.
func (r *ChatRepositoryImpl) FindMessages(db *gorm.DB, chatID string, criteria MessageCriteria) ([]chat.Message, bool, error) {
	q := db.Where("chat_id = ?", chatID)
	if criteria.AfterSentAt != nil {
		q = q.Where("(sent_at, seq) > (?, ?)", *criteria.AfterSentAt, criteria.AfterSeq)
	}

	limit := criteria.Limit
	if limit <= 0 {
		limit = 50
	}

	var messages []chat.Message
	// Fetch one extra row to learn whether another page exists.
	err := q.Order("sent_at ASC").Order("seq ASC").Limit(limit + 1).Find(&messages).Error
	if err != nil {
		return nil, false, err
	}

	hasMore := len(messages) > limit
	if hasMore {
		messages = messages[:limit]
	}
	return messages, hasMore, nil
}

// MarkMessagesRead flips read=true on every unread message in the chat
// not authored by readerID. Re-running it matches zero rows, so the
// operation is idempotent.
func (r *ChatRepositoryImpl) MarkMessagesRead(db *gorm.DB, chatID, readerID string) (int64, error) {
	res := db.Model(&chat.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND read = false", chatID, readerID).
		Update("read", true)
	return res.RowsAffected, res.Error
}

func (r *ChatRepositoryImpl) CountUnread(db *gorm.DB, chatID, userID string) (int64, error) {
	var count int64
	err := db.Model(&chat.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND read = false", chatID, userID).
		Count(&count).Error
	return count, err
}
