package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nexusjob_backend/internal/handlers"
	"nexusjob_backend/internal/middleware"
	"nexusjob_backend/internal/models"
	"nexusjob_backend/ws"
)

// RegisterRoutes wires every HTTP and websocket route. authMW is the
// token-verifying middleware built in app setup.
func RegisterRoutes(r *gin.Engine, h *handlers.AppHandlers, wsHandler *ws.Handler, authMW gin.HandlerFunc) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	employerOnly := middleware.RequireRoles(models.UserRoleEmployer)
	seekerOnly := middleware.RequireRoles(models.UserRoleSeeker)

	api := r.Group("/api/v1")
	api.Use(authMW)
	{
		// Profile and session
		api.GET("/profile", h.UserHandler.GetMyProfile)
		api.PUT("/profile", h.UserHandler.SaveMyProfile)
		api.DELETE("/session", h.UserHandler.EndSession)

		// Jobs
		api.GET("/jobs", h.JobHandler.ListJobs)
		api.GET("/jobs/:jobId", h.JobHandler.GetJob)

		employerJobs := api.Group("/jobs")
		employerJobs.Use(employerOnly)
		{
			employerJobs.POST("", h.JobHandler.CreateJob)
			employerJobs.GET("/my", h.JobHandler.ListMyJobs)
			employerJobs.PUT("/:jobId", h.JobHandler.UpdateJob)
			employerJobs.DELETE("/:jobId", h.JobHandler.DeleteJob)
			employerJobs.GET("/:jobId/applications", h.JobHandler.ListJobApplications)
		}

		// Applications
		api.GET("/applications", h.ApplicationHandler.ListMyApplications)
		api.GET("/applications/:applicationId", h.ApplicationHandler.GetApplication)
		api.GET("/applications/:applicationId/chat", h.ChatHandler.GetChatByApplication)
		api.POST("/applications", seekerOnly, h.ApplicationHandler.Apply)
		api.PUT("/applications/:applicationId/status", employerOnly, h.ApplicationHandler.UpdateStatus)

		// Chats
		api.GET("/chats", h.ChatHandler.ListMyChats)
		api.GET("/chats/:chatId", h.ChatHandler.GetChat)
		api.GET("/chats/:chatId/messages", h.ChatHandler.GetMessages)
		api.POST("/chats/:chatId/messages", h.ChatHandler.SendMessage)
		api.POST("/chats/:chatId/read", h.ChatHandler.MarkRead)

		// Notifications
		api.GET("/notifications", h.NotificationHandler.ListMyNotifications)
		api.GET("/notifications/unread-count", h.NotificationHandler.GetUnreadCount)
		api.POST("/notifications/read-all", h.NotificationHandler.MarkAllAsRead)
		api.POST("/notifications/:notificationId/read", h.NotificationHandler.MarkAsRead)

		// Assistant
		ai := api.Group("/ai")
		{
			ai.POST("/job-description", employerOnly, h.RecommendationHandler.GenerateJobDescription)
			ai.POST("/cover-letter", seekerOnly, h.RecommendationHandler.EnhanceCoverLetter)
			ai.GET("/recommendations/jobs", seekerOnly, h.RecommendationHandler.RecommendJobs)
			ai.GET("/recommendations/candidates/:jobId", employerOnly, h.RecommendationHandler.RecommendCandidates)
		}
	}

	// Realtime
	r.GET("/ws", authMW, wsHandler.ServeWS)
}
