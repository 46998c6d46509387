package routes

import (
	"net/http"

	"skillswap_backend/internal/handlers"
	"skillswap_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every HTTP and WebSocket route at the root.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	root := ginRouter.Group("/")
	{
		appHandlers.AuthHandler.RegisterRoutes(root)
		appHandlers.UserHandler.RegisterRoutes(root)
		appHandlers.SkillTestHandler.RegisterRoutes(root)
		appHandlers.MatchingHandler.RegisterRoutes(root)
		appHandlers.ChatHandler.RegisterRoutes(root)
		appHandlers.UtilHandler.RegisterRoutes(root)
		appHandlers.WSHandler.RegisterRoutes(root)
	}

	logger.Info("HTTP routes registered", "count", len(ginRouter.Routes()))
}
