package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/labelscan/backend/internal/domain"
)

// AnalysisRunner is the single operation the pipeline exposes to the delivery
// layer, kept as an interface so handlers can be tested with a double.
type AnalysisRunner interface {
	AnalyzeComprehensive(ctx context.Context, imageURL string) (*domain.AnalysisResult, error)
}

// AnalyzeRequest is the body of an analysis request
type AnalyzeRequest struct {
	ImageURL string `json:"imageUrl" binding:"required,url"`
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	pipeline AnalysisRunner
	logger   *logrus.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(pipeline AnalysisRunner, logger *logrus.Logger) *Handler {
	return &Handler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "labelscan-backend",
		"version": "1.0.0",
	})
}

// AnalyzeProduct runs the analysis pipeline for one image URL. The response
// is always the result envelope: a full report or a partial result with
// synthesisFailed set; only a failed vision call maps to an error status.
func (h *Handler) AnalyzeProduct(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "imageUrl is required and must be a valid URL",
		})
		return
	}

	result, err := h.pipeline.AnalyzeComprehensive(c.Request.Context(), req.ImageURL)
	if err != nil {
		h.logger.WithError(err).WithField("imageUrl", req.ImageURL).Error("analysis failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "analysis failed: the image could not be processed",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
