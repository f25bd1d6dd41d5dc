package services

import (
	"errors"
	"time"

	"nexusjob_backend/internal/events"
	"nexusjob_backend/internal/logger"
	"nexusjob_backend/internal/models"
	chatmodels "nexusjob_backend/internal/models/chat"
	"nexusjob_backend/internal/repositories"
	"nexusjob_backend/internal/services/dto"
	"nexusjob_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ChatService interface {
	// Chat lifecycle
	EnsureChatForApplication(db *gorm.DB, applicationID string) (*dto.ChatResponse, error)
	CreateChat(db *gorm.DB, app *models.Application, jobTitle, employerID string) (*dto.ChatResponse, error)
	GetChat(db *gorm.DB, chatID, userID string) (*dto.ChatResponse, error)
	GetChatByApplication(db *gorm.DB, applicationID, userID string) (*dto.ChatResponse, error)
	GetUserChats(db *gorm.DB, userID string) ([]*dto.ChatResponse, error)

	// Messaging
	SendMessage(db *gorm.DB, senderID, senderName string, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	GetMessages(db *gorm.DB, chatID, userID string, criteria repositories.MessageCriteria) (*dto.MessageListResponse, error)
	MarkMessagesAsRead(db *gorm.DB, chatID, readerID string) error
}

type chatService struct {
	chatRepo        repositories.ChatRepository
	applicationRepo repositories.ApplicationRepository
	jobRepo         repositories.JobRepository
	notifications   NotificationService
	bus             *events.Bus
}

func NewChatService(
	chatRepo repositories.ChatRepository,
	applicationRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	notifications NotificationService,
	bus *events.Bus,
) ChatService {
	return &chatService{
		chatRepo:        chatRepo,
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		notifications:   notifications,
		bus:             bus,
	}
}

// EnsureChatForApplication is the create-if-absent entry point used when
// an application reaches Accepted. Concurrent callers are safe: the
// check-then-act sequence is backed by the unique index on
// application_id, and a lost insert race degrades into a re-fetch of the
// winner's row.
func (s *chatService) EnsureChatForApplication(db *gorm.DB, applicationID string) (*dto.ChatResponse, error) {
	app, err := s.applicationRepo.FindByID(db, applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	if app.Status != models.ApplicationStatusAccepted {
		return nil, apperrors.ErrChatNotAccepted
	}

	if existing, err := s.chatRepo.FindChatByApplication(db, applicationID); err != nil {
		return nil, apperrors.DatabaseError(err)
	} else if existing != nil {
		return dto.NewChatResponse(existing), nil
	}

	job, err := s.jobRepo.FindByID(db, app.JobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrInvalidOperation("chat", "The job for this application no longer exists")
		}
		return nil, apperrors.DatabaseError(err)
	}

	return s.CreateChat(db, app, job.Title, job.EmployerID)
}

// CreateChat inserts the chat row for an accepted application. Idempotent
// in effect: a duplicate insert returns the already-existing chat.
func (s *chatService) CreateChat(db *gorm.DB, app *models.Application, jobTitle, employerID string) (*dto.ChatResponse, error) {
	c := &chatmodels.Chat{
		ApplicationID: app.ID,
		EmployerID:    employerID,
		SeekerID:      app.SeekerID,
		JobTitle:      jobTitle,
		UnreadCount:   0,
	}

	if err := s.chatRepo.CreateChat(db, c); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			// Another session accepted concurrently and won the insert.
			existing, ferr := s.chatRepo.FindChatByApplication(db, app.ID)
			if ferr != nil {
				return nil, apperrors.DatabaseError(ferr)
			}
			if existing == nil {
				return nil, apperrors.InternalError(errors.New("chat insert conflicted but no row found"))
			}
			logger.Debug("chat create race resolved to existing row",
				"application_id", app.ID, "chat_id", existing.ID)
			return dto.NewChatResponse(existing), nil
		}
		return nil, apperrors.DatabaseError(err)
	}

	s.bus.Publish(events.Event{Type: events.TypeChatUpdated, Chat: c})
	return dto.NewChatResponse(c), nil
}

func (s *chatService) GetChat(db *gorm.DB, chatID, userID string) (*dto.ChatResponse, error) {
	c, err := s.participantChat(db, chatID, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewChatResponse(c), nil
}

// GetChatByApplication returns nil (not an error) when no chat exists
// yet: callers use the nil branch to decide whether to create one.
func (s *chatService) GetChatByApplication(db *gorm.DB, applicationID, userID string) (*dto.ChatResponse, error) {
	c, err := s.chatRepo.FindChatByApplication(db, applicationID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if c == nil {
		return nil, nil
	}
	if !c.HasParticipant(userID) {
		return nil, apperrors.ErrChatAccessDenied
	}
	return dto.NewChatResponse(c), nil
}

func (s *chatService) GetUserChats(db *gorm.DB, userID string) ([]*dto.ChatResponse, error) {
	chats, err := s.chatRepo.FindChatsForUser(db, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	out := make([]*dto.ChatResponse, 0, len(chats))
	for i := range chats {
		out = append(out, dto.NewChatResponse(&chats[i]))
	}
	return out, nil
}

// SendMessage appends a message and refreshes the parent chat's preview
// in one transaction. The caller gets the row only after the commit:
// there is no optimistic echo, the subscription carries the
// authoritative message back to the sender.
func (s *chatService) SendMessage(db *gorm.DB, senderID, senderName string, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	if req.Content == "" {
		return nil, apperrors.ErrEmptyMessage
	}

	c, err := s.participantChat(db, req.ChatID, senderID)
	if err != nil {
		return nil, err
	}

	msg := &chatmodels.Message{
		ChatID:     c.ID,
		SenderID:   senderID,
		SenderName: senderName,
		Content:    req.Content,
		SentAt:     time.Now(),
		Read:       false,
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.DatabaseError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.chatRepo.CreateMessage(tx, msg); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if err := s.chatRepo.UpdatePreview(tx, c.ID, msg.Content, msg.SentAt); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	fresh, err := s.chatRepo.FindChatByID(db, c.ID)
	if err != nil {
		// The message is durable; a stale preview in the event is the
		// accepted degraded state.
		fresh = c
	}

	s.notifications.NotifyNewMessage(db, fresh, msg)
	s.bus.Publish(events.Event{Type: events.TypeMessageCreated, Chat: fresh, Message: msg})

	return dto.NewMessageResponse(msg), nil
}

func (s *chatService) GetMessages(db *gorm.DB, chatID, userID string, criteria repositories.MessageCriteria) (*dto.MessageListResponse, error) {
	if _, err := s.participantChat(db, chatID, userID); err != nil {
		return nil, err
	}

	messages, hasMore, err := s.chatRepo.FindMessages(db, chatID, criteria)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	resp := &dto.MessageListResponse{
		Messages: make([]*dto.MessageResponse, 0, len(messages)),
		HasMore:  hasMore,
	}
	for i := range messages {
		resp.Messages = append(resp.Messages, dto.NewMessageResponse(&messages[i]))
	}
	if hasMore && len(messages) > 0 {
		last := messages[len(messages)-1]
		sentAt := last.SentAt
		resp.NextAfterSentAt = &sentAt
		resp.NextAfterSeq = last.Seq
	}
	return resp, nil
}

// MarkMessagesAsRead flips every unread peer message to read and zeroes
// the shared unread counter. Idempotent, so both the open-chat path and
// the live-delivery path may call it freely; concurrent calls from both
// participants both write zero, which is the accepted last-write-wins.
func (s *chatService) MarkMessagesAsRead(db *gorm.DB, chatID, readerID string) error {
	c, err := s.participantChat(db, chatID, readerID)
	if err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.DatabaseError(tx.Error)
	}
	defer tx.Rollback()

	flipped, err := s.chatRepo.MarkMessagesRead(tx, chatID, readerID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if err := s.chatRepo.ResetUnread(tx, chatID); err != nil {
		return apperrors.DatabaseError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.DatabaseError(err)
	}

	if flipped > 0 || c.UnreadCount > 0 {
		c.UnreadCount = 0
		s.bus.Publish(events.Event{Type: events.TypeChatUpdated, Chat: c})
	}
	return nil
}

func (s *chatService) participantChat(db *gorm.DB, chatID, userID string) (*chatmodels.Chat, error) {
	c, err := s.chatRepo.FindChatByID(db, chatID)
	if err != nil {
		if errors.Is(err, repositories.ErrChatNotFound) {
			return nil, apperrors.ErrChatNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	if !c.HasParticipant(userID) {
		return nil, apperrors.ErrChatAccessDenied
	}
	return c, nil
}
