package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"persona-match/internal/matching"
	"persona-match/internal/service"
)

// MatchHandler expone perfil y matches del respondente autenticado.
type MatchHandler struct {
	logger  *zap.Logger
	matches *service.MatchService
}

func NewMatchHandler(logger *zap.Logger, matches *service.MatchService) *MatchHandler {
	return &MatchHandler{
		logger:  logger,
		matches: matches,
	}
}

// GetProfile maneja GET /profile.
func (h *MatchHandler) GetProfile(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}
	report, err := h.matches.Profile(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetMatches maneja GET /matches y devuelve {identity, matches}.
func (h *MatchHandler) GetMatches(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}
	report, err := h.matches.Matches(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *MatchHandler) writeError(c *gin.Context, userID string, err error) {
	switch {
	case errors.Is(err, service.ErrAnswersNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "answers not found"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, matching.ErrInvariant),
		errors.Is(err, matching.ErrTraitCoverage),
		errors.Is(err, matching.ErrInvalidRanking):
		// Rankings incoherentes son un defecto interno.
		h.logger.Error("match engine invariant violated", zap.Error(err), zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		h.logger.Error("match request failed", zap.Error(err), zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute matches"})
	}
}
