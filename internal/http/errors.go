package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skill-radar/internal/scoring"
	"skill-radar/internal/service"
)

// respondServiceError traduce errores de servicio a codigos HTTP.
func respondServiceError(c *gin.Context, logger *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSelection):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, service.ErrCatalogNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "questionnaire not found"})
	case errors.Is(err, service.ErrSubmitRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	case errors.Is(err, scoring.ErrInsufficientHistory):
		c.JSON(http.StatusNotFound, gin.H{"error": "no answers yet"})
	case errors.Is(err, service.ErrQuestionnaireNotConfigured),
		errors.Is(err, service.ErrSessionServiceNotConfigured),
		errors.Is(err, service.ErrOverviewServiceNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service not configured"})
	default:
		logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not " + op})
	}
}
