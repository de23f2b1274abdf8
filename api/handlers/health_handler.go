package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/yt-audio-go/internal/domain"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	history domain.HistoryRepository
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(history domain.HistoryRepository, version string) *HealthHandler {
	return &HealthHandler{
		history: history,
		version: version,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	History struct {
		Available bool `json:"available"`
	} `json:"history"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:  "ok",
		Version: h.version,
	}
	if h.history != nil {
		_, err := h.history.ListRuns(1)
		response.History.Available = err == nil
	}

	c.JSON(http.StatusOK, response)
}
