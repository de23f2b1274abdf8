package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/yt-audio-go/api/handlers"
	"github.com/yourusername/yt-audio-go/api/middleware"
	"github.com/yourusername/yt-audio-go/internal/domain"
	"github.com/yourusername/yt-audio-go/pkg/logger"
)

// SetupRouter sets up the read-only status API over the sync history
func SetupRouter(
	history domain.HistoryRepository,
	logReader *logger.LogReader,
	version string,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(history, version)
	router.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		historyHandler := handlers.NewHistoryHandler(history, log)
		runs := v1.Group("/runs")
		{
			runs.GET("", historyHandler.ListRuns)
			runs.GET("/:id", historyHandler.GetRun)
		}
		tracks := v1.Group("/tracks")
		{
			tracks.GET("", historyHandler.ListTracks)
			tracks.GET("/stats", historyHandler.GetStats)
		}

		logHandler := handlers.NewLogHandler(logReader)
		events := v1.Group("/events")
		{
			events.GET("/categories", logHandler.GetCategories)
			events.GET("/:category", logHandler.GetLogs)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}
