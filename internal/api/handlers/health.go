package handlers

import (
	"context"
	"net/http"
	"time"

	"financialproducts/internal/models"

	"github.com/gin-gonic/gin"
)

// Pinger is anything that can report its own reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	storage Pinger
	backend string
}

func NewHealthHandler(storage Pinger, backend string) *HealthHandler {
	return &HealthHandler{storage: storage, backend: backend}
}

// Health godoc
// @Summary Health check
// @Description Returns the health status of the API and its storage
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.ErrorResponse "Service unavailable"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	// Check storage connection
	if err := h.storage.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Message: "storage connection failed"})
		return
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:  "healthy",
		Storage: h.backend,
		Time:    time.Now().UTC(),
	})
}
