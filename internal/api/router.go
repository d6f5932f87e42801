package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Karim-Bennia/minirag-console/internal/api/chat"
	"github.com/Karim-Bennia/minirag-console/internal/api/middleware"
	"github.com/Karim-Bennia/minirag-console/internal/api/session"
	"github.com/Karim-Bennia/minirag-console/internal/config"
	"github.com/Karim-Bennia/minirag-console/internal/repository"
	"github.com/Karim-Bennia/minirag-console/internal/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(
	cfg *config.Config,
	ingestService *service.IngestService,
	chatService *service.ChatService,
	state *repository.StateRepository,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middleware.CORS(cfg.API.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api")
	apiGroup.Use(middleware.Auth(cfg.API.Key))

	sessionHandler := session.NewHandler(cfg, ingestService, chatService, state)
	sessionHandler.RegisterRoutes(apiGroup)

	chatHandler := chat.NewHandler(chatService)
	chatHandler.RegisterRoutes(apiGroup.Group("/chat"))

	return r
}
