package handlers

// AppHandlers holds every HTTP handler in the application.
type AppHandlers struct {
	UserHandler           *UserHandler
	JobHandler            *JobHandler
	ApplicationHandler    *ApplicationHandler
	ChatHandler           *ChatHandler
	NotificationHandler   *NotificationHandler
	RecommendationHandler *RecommendationHandler
}
