package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nexusjob_backend/database"
	"nexusjob_backend/internal/ai"
	"nexusjob_backend/internal/auth"
	"nexusjob_backend/internal/config"
	"nexusjob_backend/internal/coordinator"
	"nexusjob_backend/internal/email"
	"nexusjob_backend/internal/events"
	"nexusjob_backend/internal/handlers"
	"nexusjob_backend/internal/logger"
	"nexusjob_backend/internal/middleware"
	"nexusjob_backend/internal/repositories"
	"nexusjob_backend/internal/routes"
	"nexusjob_backend/internal/services"
	"nexusjob_backend/internal/validator"
	"nexusjob_backend/ws"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}
	logger.Info("Migrations applied")

	ginRouter, shutdown := SetupRouter(cfg, gormDB)
	defer shutdown()

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the full application graph and returns the router
// plus a teardown for the background loops. Split out from Run so
// integration tests can assemble the app against their own database.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, func()) {
	serviceContainer := initializeServices(cfg, gormDB)

	bus := serviceContainer.Bus

	wsManager := ws.NewManager(serviceContainer.ChatService, gormDB)
	go wsManager.Run()
	wsHandler := ws.NewHandler(wsManager)

	sessions := coordinator.New(gormDB, serviceContainer.ChatService, bus, wsManager)
	sessions.Start()

	appHandlers := initializeHandlers(cfg, serviceContainer, sessions)

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	authMW := middleware.AuthMiddleware(verifier, sessions)

	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler, authMW)

	shutdown := func() {
		sessions.Stop()
		wsManager.Stop()
	}
	return ginRouter, shutdown
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository()
	jobRepo := repositories.NewJobRepository()
	applicationRepo := repositories.NewApplicationRepository()
	chatRepo := repositories.NewChatRepository()
	notificationRepo := repositories.NewNotificationRepository()

	bus := events.NewBus()

	var mailer email.Sender
	if cfg.Email.SMTPHost != "" {
		smtp, err := email.NewSMTPSender(email.Config{
			SMTPHost: cfg.Email.SMTPHost,
			SMTPPort: cfg.Email.SMTPPort,
			Username: cfg.Email.SMTPUsername,
			Password: cfg.Email.SMTPPassword,
			From:     cfg.Email.FromEmail,
			FromName: cfg.Email.FromName,
		})
		if err != nil {
			logger.Fatal("Failed to initialize SMTP sender", "error", err)
		}
		mailer = smtp
	} else {
		logger.Warn("SMTP not configured, transactional mail disabled")
		mailer = email.NoopSender{}
	}

	var model ai.TextModel
	if cfg.AI.APIKey != "" {
		gemini, err := ai.NewGeminiModel(context.Background(), cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			logger.Fatal("Failed to initialize text model", "error", err)
		}
		model = gemini
		logger.Info("Text model initialized", "model", cfg.AI.Model)
	} else {
		logger.Warn("GEMINI_API_KEY not set, recommendations will degrade to defaults")
		model = ai.Unavailable{}
	}

	userService := services.NewUserService(userRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, mailer)
	jobService := services.NewJobService(jobRepo, userRepo)
	applicationService := services.NewApplicationService(applicationRepo, jobRepo, notificationService, bus)
	chatService := services.NewChatService(chatRepo, applicationRepo, jobRepo, notificationService, bus)
	recommendationService := services.NewRecommendationService(model, jobRepo, userRepo,
		time.Duration(cfg.AI.Timeout)*time.Second)

	return &services.ServiceContainer{
		UserService:           userService,
		JobService:            jobService,
		ApplicationService:    applicationService,
		ChatService:           chatService,
		NotificationService:   notificationService,
		RecommendationService: recommendationService,
		Bus:                   bus,
	}
}

func initializeHandlers(cfg *config.Config, sc *services.ServiceContainer, sessions *coordinator.Coordinator) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		UserHandler:           handlers.NewUserHandler(baseHandler, sc.UserService, sessions),
		JobHandler:            handlers.NewJobHandler(baseHandler, sc.JobService, sc.ApplicationService),
		ApplicationHandler:    handlers.NewApplicationHandler(baseHandler, sc.ApplicationService),
		ChatHandler:           handlers.NewChatHandler(baseHandler, sc.ChatService, cfg.Chat.PageSize, cfg.Chat.MaxPageSize),
		NotificationHandler:   handlers.NewNotificationHandler(baseHandler, sc.NotificationService),
		RecommendationHandler: handlers.NewRecommendationHandler(baseHandler, sc.RecommendationService),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}
