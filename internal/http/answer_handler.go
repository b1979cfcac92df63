package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"persona-match/internal/domain"
	"persona-match/internal/service"
)

// AnswerHandler expone el cuestionario y las respuestas del respondente autenticado.
type AnswerHandler struct {
	logger  *zap.Logger
	answers *service.AnswerService
}

func NewAnswerHandler(logger *zap.Logger, answers *service.AnswerService) *AnswerHandler {
	return &AnswerHandler{
		logger:  logger,
		answers: answers,
	}
}

// GetQuestionnaire maneja GET /questionnaire.
func (h *AnswerHandler) GetQuestionnaire(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"questions": h.answers.Questionnaire()})
}

// SubmitAnswers maneja PUT /answers.
func (h *AnswerHandler) SubmitAnswers(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}
	var req struct {
		Answers domain.RawAnswers `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid answers request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	record, err := h.answers.Submit(c.Request.Context(), userID, req.Answers)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAnswers) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("submit answers failed", zap.Error(err), zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store answers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answers": record})
}

// GetAnswers maneja GET /answers.
func (h *AnswerHandler) GetAnswers(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}
	record, err := h.answers.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrAnswersNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "answers not found"})
			return
		}
		h.logger.Error("get answers failed", zap.Error(err), zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch answers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answers": record})
}
