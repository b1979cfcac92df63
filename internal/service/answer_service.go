package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"persona-match/internal/domain"
	"persona-match/internal/repository"
	"persona-match/internal/traits"
)

var (
	ErrInvalidAnswers  = errors.New("invalid answers")
	ErrAnswersNotFound = errors.New("answers not found")
)

// AnswerService recibe y guarda las respuestas del cuestionario.
type AnswerService struct {
	logger  *zap.Logger
	table   *traits.Table
	answers repository.AnswerRepository
	cache   MatchCache
}

func NewAnswerService(logger *zap.Logger, table *traits.Table, answers repository.AnswerRepository, cache MatchCache) *AnswerService {
	return &AnswerService{
		logger:  logger,
		table:   table,
		answers: answers,
		cache:   cache,
	}
}

// Questionnaire devuelve las preguntas y opciones para mostrar al respondente.
func (s *AnswerService) Questionnaire() []traits.Question {
	return s.table.Questions()
}

// Submit reemplaza las respuestas de userID. Los ids se guardan tal como los declara la tabla.
func (s *AnswerService) Submit(ctx context.Context, userID string, answers domain.RawAnswers) (domain.AnswerRecord, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.AnswerRecord{}, fmt.Errorf("%w: missing user id", ErrInvalidAnswers)
	}

	normalized, err := s.table.Resolve(answers)
	if err != nil {
		return domain.AnswerRecord{}, fmt.Errorf("%w: %w", ErrInvalidAnswers, err)
	}

	record := domain.AnswerRecord{
		UserID:    userID,
		Answers:   normalized,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.answers.Upsert(ctx, record); err != nil {
		return domain.AnswerRecord{}, fmt.Errorf("store answers: %w", err)
	}

	// Cualquier cambio altera los matches de todos los demas.
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("match cache invalidate failed", zap.Error(err))
		}
	}

	s.logger.Info("answers stored", zap.String("user_id", userID), zap.Int("answered", len(normalized)))
	return record, nil
}

func (s *AnswerService) Get(ctx context.Context, userID string) (domain.AnswerRecord, error) {
	record, err := s.answers.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AnswerRecord{}, ErrAnswersNotFound
		}
		return domain.AnswerRecord{}, err
	}
	return record, nil
}
