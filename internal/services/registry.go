package services

import "nexusjob_backend/internal/events"

// ServiceContainer groups the service layer for wiring in app.SetupRouter.
type ServiceContainer struct {
	UserService           UserService
	JobService            JobService
	ApplicationService    ApplicationService
	ChatService           ChatService
	NotificationService   NotificationService
	RecommendationService RecommendationService

	// Bus is the in-process event bus the services publish to.
	Bus *events.Bus
}
