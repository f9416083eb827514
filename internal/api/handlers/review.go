package handlers

import (
	"context"
	"net/http"

	"financialproducts/internal/models"

	"github.com/gin-gonic/gin"
)

// ReviewRunner runs the revision review on demand
type ReviewRunner interface {
	RunOnce(ctx context.Context) ([]models.FinancialProduct, error)
}

// ReviewHandler handles revision review requests
type ReviewHandler struct {
	runner ReviewRunner
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(runner ReviewRunner) *ReviewHandler {
	return &ReviewHandler{runner: runner}
}

// RunReview godoc
// @Summary Run the revision review
// @Description Lists the products whose revision date is today or earlier and refreshes the due gauge
// @Tags reviews
// @Produce json
// @Success 200 {object} models.ReviewResponse
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /reviews/run [post]
func (h *ReviewHandler) RunReview(c *gin.Context) {
	due, err := h.runner.RunOnce(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to run revision review"})
		return
	}

	c.JSON(http.StatusOK, models.ReviewResponse{Count: len(due), Data: due})
}
