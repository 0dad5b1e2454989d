package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"chatpdf/internal/ai"
	appsvc "chatpdf/internal/app"
	"chatpdf/internal/bootstrap"
	"chatpdf/internal/cache"
	"chatpdf/internal/health"
	"chatpdf/internal/platform/rabbitmq"
	"chatpdf/internal/repository"
	"chatpdf/internal/transport/http/handler"
	"chatpdf/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORS(app.Config.CORSOrigins()))

	sessionRepo := repository.NewSessionRepository(app.MySQL)
	messageRepo := repository.NewMessageRepository(app.MySQL)
	documentRepo := repository.NewDocumentRepository(app.MySQL)
	userRepo := repository.NewUserRepository(app.MySQL)

	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)
	publisher := rabbitmq.NewMessagePublisher(app.MQConn, app.Config.RabbitMQ.MessagePersistQueue)
	aiRouter := ai.NewRouter(ai.Config{
		OpenRouterBaseURL: app.Config.AI.OpenRouterBaseURL,
		GeminiBaseURL:     app.Config.AI.GeminiBaseURL,
		OpenRouterKeys:    app.Config.AI.OpenRouterKeys,
		GeminiKeys:        app.Config.AI.GeminiKeys,
		RequestTimeout:    time.Duration(app.Config.AI.RequestTimeoutSec) * time.Second,
	})

	chatService := appsvc.NewChatService(
		sessionRepo, messageRepo, documentRepo,
		publisher, historyCache, aiRouter,
		app.Config.AI.DefaultModel,
	)
	studyService := appsvc.NewStudyService(
		sessionRepo, messageRepo,
		publisher, historyCache, aiRouter,
		app.Config.AI.DefaultModel,
	)
	libraryService := appsvc.NewLibraryService(sessionRepo, messageRepo, documentRepo)
	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)

	monitor := health.NewMonitor(app.MySQL, historyCache, sessionRepo)
	router.Use(middleware.RequestMetrics(monitor))

	chatHandler := handler.NewChatHandler(chatService)
	studyHandler := handler.NewStudyHandler(studyService)
	libraryHandler := handler.NewLibraryHandler(libraryService)
	healthHandler := handler.NewHealthHandler(monitor)
	authHandler := handler.NewAuthHandler(authService)

	api := router.Group("/api")
	api.GET("/health", healthHandler.Check)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	protected := api.Group("")
	if app.Config.Auth.Enabled {
		protected.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	}

	protected.POST("/sessions", chatHandler.CreateSession)
	protected.GET("/sessions", chatHandler.ListSessions)
	protected.DELETE("/sessions/:id", chatHandler.DeleteSession)
	protected.POST("/sessions/:id/upload-pdf", chatHandler.UploadPDF)
	protected.POST("/sessions/:id/messages", chatHandler.SendMessage)
	protected.GET("/sessions/:id/messages", chatHandler.GetMessages)
	protected.GET("/models", chatHandler.ListModels)

	protected.POST("/generate-questions", studyHandler.GenerateQuestions)
	protected.POST("/generate-quiz", studyHandler.GenerateQuiz)
	protected.POST("/translate", studyHandler.Translate)
	protected.POST("/research", studyHandler.Research)
	protected.POST("/compare-pdfs", studyHandler.ComparePDFs)

	protected.POST("/search", libraryHandler.Search)
	protected.POST("/export", libraryHandler.Export)
	protected.GET("/insights", libraryHandler.Insights)

	protected.GET("/system-health", healthHandler.SystemHealth)
	protected.GET("/system-health/metrics", healthHandler.SystemMetrics)
	protected.POST("/system-health/fix", healthHandler.Fix)

	return router
}
