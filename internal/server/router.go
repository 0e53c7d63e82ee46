package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/giftgenius/giftgenius-api/internal/logger"
)

func NewRouter(h *Handler, log *logger.Logger, allowOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogging(log))
	router.Use(cors.New(corsConfig(allowOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := router.Group("/api")
	{
		api.POST("/gifts", h.HandleGenerate)
		api.POST("/reset", h.HandleReset)
		api.GET("/history", h.HandleHistory)
		api.DELETE("/history", h.HandleClearHistory)
		api.POST("/share", h.HandleCreateShare)
		api.GET("/share", h.HandleResolveShare)
		api.POST("/archive", h.HandleArchiveSave)
		api.GET("/archive/:id", h.HandleArchiveLoad)
	}

	return router
}

func corsConfig(allowOrigins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	if len(allowOrigins) == 1 && allowOrigins[0] == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = allowOrigins
	return cfg
}
