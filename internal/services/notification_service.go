package services

import (
	"encoding/json"
	"fmt"
	"net/http"

	"nexusjob_backend/internal/email"
	"nexusjob_backend/internal/logger"
	"nexusjob_backend/internal/models"
	chatmodels "nexusjob_backend/internal/models/chat"
	"nexusjob_backend/internal/repositories"
	"nexusjob_backend/internal/services/dto"
	"nexusjob_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationService interface {
	GetUserNotifications(db *gorm.DB, userID string, unreadOnly bool) ([]*dto.NotificationResponse, error)
	MarkAsRead(db *gorm.DB, userID, notificationID string) error
	MarkAllAsRead(db *gorm.DB, userID string) error
	GetUnreadCount(db *gorm.DB, userID string) (int64, error)

	// Factory methods invoked by other services. Best-effort: failures
	// are logged, never propagated to the triggering operation.
	NotifyNewApplication(db *gorm.DB, job *models.Job, app *models.Application)
	NotifyApplicationStatus(db *gorm.DB, job *models.Job, app *models.Application)
	NotifyNewMessage(db *gorm.DB, c *chatmodels.Chat, msg *chatmodels.Message)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	mailer           email.Sender
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	mailer email.Sender,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		mailer:           mailer,
	}
}

func (s *notificationService) GetUserNotifications(db *gorm.DB, userID string, unreadOnly bool) ([]*dto.NotificationResponse, error) {
	rows, err := s.notificationRepo.FindByUser(db, userID, unreadOnly)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	out := make([]*dto.NotificationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.NewNotificationResponse(&rows[i]))
	}
	return out, nil
}

func (s *notificationService) MarkAsRead(db *gorm.DB, userID, notificationID string) error {
	err := s.notificationRepo.MarkRead(db, userID, notificationID)
	if err == nil {
		return nil
	}
	if apperrors.Is(err, repositories.ErrNotificationNotFound) {
		return apperrors.New(apperrors.CodeNotFound, "notification", "Notification not found", http.StatusNotFound)
	}
	return apperrors.DatabaseError(err)
}

func (s *notificationService) MarkAllAsRead(db *gorm.DB, userID string) error {
	if err := s.notificationRepo.MarkAllRead(db, userID); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

func (s *notificationService) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	count, err := s.notificationRepo.CountUnread(db, userID)
	if err != nil {
		return 0, apperrors.DatabaseError(err)
	}
	return count, nil
}

func (s *notificationService) NotifyNewApplication(db *gorm.DB, job *models.Job, app *models.Application) {
	s.create(db, &models.Notification{
		UserID:  job.EmployerID,
		Type:    "new_application",
		Title:   "New application",
		Message: fmt.Sprintf("%s applied to %s", app.SeekerName, job.Title),
		Data:    payload(map[string]string{"job_id": job.ID, "application_id": app.ID}),
	})
}

func (s *notificationService) NotifyApplicationStatus(db *gorm.DB, job *models.Job, app *models.Application) {
	s.create(db, &models.Notification{
		UserID:  app.SeekerID,
		Type:    "application_status",
		Title:   "Application update",
		Message: fmt.Sprintf("Your application for %s is now %s", job.Title, app.Status),
		Data:    payload(map[string]string{"job_id": job.ID, "application_id": app.ID}),
	})

	if app.Status == models.ApplicationStatusAccepted {
		s.sendAcceptanceEmail(db, job, app)
	}
}

func (s *notificationService) NotifyNewMessage(db *gorm.DB, c *chatmodels.Chat, msg *chatmodels.Message) {
	recipient := c.OtherParticipant(msg.SenderID)
	if recipient == "" {
		return
	}
	s.create(db, &models.Notification{
		UserID:  recipient,
		Type:    "new_message",
		Title:   "New message",
		Message: fmt.Sprintf("%s sent you a message about %s", msg.SenderName, c.JobTitle),
		Data:    payload(map[string]string{"chat_id": c.ID, "message_id": msg.ID}),
	})
}

func (s *notificationService) create(db *gorm.DB, n *models.Notification) {
	if err := s.notificationRepo.Create(db, n); err != nil {
		logger.WithError(err).Warn("failed to store notification",
			"user_id", n.UserID, "type", n.Type)
	}
}

func (s *notificationService) sendAcceptanceEmail(db *gorm.DB, job *models.Job, app *models.Application) {
	seeker, err := s.userRepo.FindByID(db, app.SeekerID)
	if err != nil {
		logger.WithError(err).Warn("acceptance email skipped, seeker not found", "seeker_id", app.SeekerID)
		return
	}

	subject := fmt.Sprintf("You've been accepted for %s", job.Title)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Great news: <b>%s</b> accepted your application for <b>%s</b>. "+
			"You can now chat with the employer directly from your dashboard.</p>",
		seeker.Name, job.CompanyName, job.Title)

	if err := s.mailer.Send(seeker.Email, subject, body); err != nil {
		logger.WithError(err).Warn("failed to send acceptance email", "to", seeker.Email)
	}
}

func payload(m map[string]string) datatypes.JSON {
	b, _ := json.Marshal(m)
	return datatypes.JSON(b)
}
