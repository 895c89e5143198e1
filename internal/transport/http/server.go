package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "interviewai-backend/internal/app"
	"interviewai-backend/internal/bootstrap"
	"interviewai-backend/internal/cache"
	"interviewai-backend/internal/platform/rabbitmq"
	"interviewai-backend/internal/repository"
	"interviewai-backend/internal/transport/http/handler"
	"interviewai-backend/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	documentRepo := repository.NewDocumentRepository(app.MySQL)
	sessionRepo := repository.NewSessionRepository(app.MySQL)
	segmentRepo := repository.NewSegmentRepository(app.MySQL)
	suggestionRepo := repository.NewSuggestionRepository(app.MySQL)
	auditRepo := repository.NewAuditEventRepository(app.MySQL)

	auditPublisher := rabbitmq.NewAuditPublisher(app.MQConn, app.Config.RabbitMQ.AuditPersistQueue)
	auditService := appsvc.NewAuditService(
		auditRepo,
		auditPublisher,
		time.Duration(app.Config.Privacy.AuditRetentionHours)*time.Hour,
	)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
		app.Config.Privacy.DefaultRetentionHours,
	)
	sessionService := appsvc.NewSessionService(sessionRepo, segmentRepo, suggestionRepo)
	documentService := appsvc.NewDocumentService(documentRepo, app.Gateway, app.Config.Upload.MaxFileSize)

	summaryCache := cache.NewSummaryCache(app.Redis, time.Duration(app.Config.Redis.SummaryTTLSeconds)*time.Second)
	privacyService := appsvc.NewPrivacyService(
		app.MySQL,
		userRepo,
		app.Gateway,
		summaryCache,
		app.Config.Privacy.MaxRetentionHours,
	)
	sweepService := appsvc.NewSweepService(userRepo, privacyService)

	authHandler := handler.NewAuthHandler(authService, auditService)
	userHandler := handler.NewUserHandler(authService, auditService)
	sessionHandler := handler.NewSessionHandler(sessionService, privacyService)
	documentHandler := handler.NewDocumentHandler(documentService, auditService)
	privacyHandler := handler.NewPrivacyHandler(privacyService, sweepService, auditService)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	usersGroup := v1.Group("/users")
	usersGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	usersGroup.GET("/me", authHandler.Me)
	usersGroup.PATCH("/me", userHandler.UpdateProfile)
	usersGroup.DELETE("/me", userHandler.DeactivateAccount)

	sessionsGroup := v1.Group("/sessions")
	sessionsGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	sessionsGroup.POST("", sessionHandler.CreateSession)
	sessionsGroup.GET("", sessionHandler.ListSessions)
	sessionsGroup.GET("/:id", sessionHandler.GetSession)
	sessionsGroup.PATCH("/:id/end", sessionHandler.EndSession)
	sessionsGroup.DELETE("/:id", sessionHandler.DeleteSession)
	sessionsGroup.POST("/:id/segments", sessionHandler.AppendSegment)
	sessionsGroup.GET("/:id/segments", sessionHandler.ListSegments)
	sessionsGroup.POST("/:id/suggestions", sessionHandler.AppendSuggestion)
	sessionsGroup.PATCH("/:id/suggestions/:suggestion_id/feedback", sessionHandler.UpdateSuggestionFeedback)

	documentsGroup := v1.Group("/documents")
	documentsGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	documentsGroup.POST("", documentHandler.Upload)
	documentsGroup.GET("", documentHandler.ListDocuments)
	documentsGroup.DELETE("/:id", documentHandler.DeleteDocument)

	privacyGroup := v1.Group("/privacy")
	privacyGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	privacyGroup.GET("/summary", privacyHandler.DataSummary)
	privacyGroup.POST("/export", privacyHandler.ExportData)
	privacyGroup.POST("/erase", privacyHandler.EraseData)
	privacyGroup.GET("/retention", privacyHandler.GetRetentionPolicy)
	privacyGroup.PUT("/retention", privacyHandler.SetRetentionPolicy)
	privacyGroup.POST("/sweep", privacyHandler.TriggerSweep)

	return router
}
