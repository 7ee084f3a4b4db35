package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skill-radar/internal/service"
)

// QuestionnaireHandler mantiene dependencias para endpoints del cuestionario.
type QuestionnaireHandler struct {
	logger         *zap.Logger
	questionnaires *service.QuestionnaireService
}

// NewQuestionnaireHandler crea una instancia de QuestionnaireHandler.
func NewQuestionnaireHandler(logger *zap.Logger, questionnaires *service.QuestionnaireService) *QuestionnaireHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionnaireHandler{logger: logger, questionnaires: questionnaires}
}

// GetQuestionnaire maneja GET /questionnaire.
func (h *QuestionnaireHandler) GetQuestionnaire(c *gin.Context) {
	catalog, err := h.questionnaires.Catalog(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, "load questionnaire", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questionnaire": catalog})
}

// PreviewScores maneja POST /questionnaire/score.
func (h *QuestionnaireHandler) PreviewScores(c *gin.Context) {
	var req struct {
		Answers map[string]string `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid preview request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	preview, err := h.questionnaires.Preview(c.Request.Context(), req.Answers)
	if err != nil {
		respondServiceError(c, h.logger, "score answers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"measurements":   preview.Measurements,
		"scores":         preview.Scores,
		"scores_display": preview.Scores.Display(),
	})
}

// SubmitAnswers maneja POST /answers.
func (h *QuestionnaireHandler) SubmitAnswers(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req struct {
		SessionID string            `json:"session_id"`
		Answers   map[string]string `json:"answers" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid submit request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res, err := h.questionnaires.Submit(c.Request.Context(), user, service.SubmitInput{
		SessionID:  req.SessionID,
		Selections: req.Answers,
	})
	if err != nil {
		respondServiceError(c, h.logger, "submit answers", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"submission":     res.Submission,
		"measurements":   res.Measurements,
		"scores":         res.Scores,
		"scores_display": res.Scores.Display(),
		"session_id":     res.SessionID,
	})
}
