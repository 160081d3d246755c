package http

import (
	"github.com/gin-gonic/gin"

	appsvc "convobase/internal/app"
	"convobase/internal/bootstrap"
	"convobase/internal/cache"
	"convobase/internal/platform/rabbitmq"
	"convobase/internal/repository"
	"convobase/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler()
	router.GET("/health", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.DB)
	convRepo := repository.NewConversationRepository(app.DB)
	msgRepo := repository.NewMessageRepository(app.DB)
	docRepo := repository.NewDocumentRepository(app.DB)

	var transcriptCache appsvc.TranscriptCache
	if app.Redis != nil {
		transcriptCache = cache.NewTranscriptCache(app.Redis, app.Config.TranscriptTTL(), app.Config.DirtyTTL())
	}
	var publisher appsvc.TurnEventPublisher
	if app.MQConn != nil {
		publisher = rabbitmq.NewTurnEventPublisher(app.MQConn, app.Config.RabbitMQ.TurnEventQueue)
	}

	userService := appsvc.NewUserService(userRepo)
	documentService := appsvc.NewDocumentService(docRepo, userRepo)
	conversationService := appsvc.NewConversationService(
		app.DB,
		userRepo,
		convRepo,
		msgRepo,
		docRepo,
		app.Generator,
		transcriptCache,
		publisher,
		app.Log,
		app.Config.Generation.MaxHistoryMessages,
		app.Config.Generation.MaxContextChars,
	)

	userHandler := handler.NewUserHandler(userService, app.Log)
	documentHandler := handler.NewDocumentHandler(documentService, app.Log)
	conversationHandler := handler.NewConversationHandler(conversationService, app.Log)

	v1 := router.Group("/api/v1")
	v1.POST("/users", userHandler.Create)
	v1.GET("/users/:id", userHandler.Get)
	v1.GET("/users/:id/conversations", conversationHandler.ListForUser)

	v1.POST("/documents", documentHandler.Create)
	v1.GET("/documents", documentHandler.List)
	v1.GET("/documents/:id", documentHandler.Get)

	v1.POST("/conversations", conversationHandler.Create)
	v1.GET("/conversations/:id", conversationHandler.Get)
	v1.DELETE("/conversations/:id", conversationHandler.Delete)
	v1.POST("/conversations/:id/messages", conversationHandler.AppendMessage)

	return router
}
