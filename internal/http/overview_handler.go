package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skill-radar/internal/service"
)

// OverviewHandler expone la comparacion personal entre entregas.
type OverviewHandler struct {
	logger   *zap.Logger
	overview *service.OverviewService
}

func NewOverviewHandler(logger *zap.Logger, overview *service.OverviewService) *OverviewHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverviewHandler{logger: logger, overview: overview}
}

// GetOverview maneja GET /overview.
func (h *OverviewHandler) GetOverview(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	res, err := h.overview.Overview(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, h.logger, "load overview", err)
		return
	}

	body := gin.H{
		"measurements":         res.Measurements,
		"current":              res.Current,
		"current_display":      res.Current.Display(),
		"current_submitted_at": res.CurrentSubmittedAt,
		"has_previous":         res.HasPrevious,
		"breakdown":            res.Breakdown,
	}
	if res.HasPrevious {
		body["previous"] = res.Previous
		body["previous_display"] = res.Previous.Display()
		body["previous_submitted_at"] = res.PreviousSubmittedAt
	}
	c.JSON(http.StatusOK, body)
}

// GetSimilar maneja GET /overview/similar.
func (h *OverviewHandler) GetSimilar(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	profiles, err := h.overview.Similar(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, h.logger, "find similar profiles", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"similar": profiles})
}
