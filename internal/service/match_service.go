package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"persona-match/internal/domain"
	"persona-match/internal/matching"
	"persona-match/internal/repository"
	"persona-match/internal/traits"
)

// MatchService arma el reporte de compatibilidad de un respondente contra el resto.
type MatchService struct {
	logger  *zap.Logger
	table   *traits.Table
	engine  *matching.Engine
	answers repository.AnswerRepository
	cache   MatchCache
}

func NewMatchService(
	logger *zap.Logger,
	table *traits.Table,
	engine *matching.Engine,
	answers repository.AnswerRepository,
	cache MatchCache,
) *MatchService {
	return &MatchService{
		logger:  logger,
		table:   table,
		engine:  engine,
		answers: answers,
		cache:   cache,
	}
}

// Profile devuelve el perfil y el ranking derivados de las respuestas de userID.
func (s *MatchService) Profile(ctx context.Context, userID string) (domain.ProfileReport, error) {
	record, err := s.subjectAnswers(ctx, userID)
	if err != nil {
		return domain.ProfileReport{}, err
	}
	profile := matching.ComputeProfile(s.table, record.Answers)
	return domain.ProfileReport{
		Identity: userID,
		Profile:  profile,
		Ranking:  matching.DeriveRanking(s.table.Traits(), profile),
	}, nil
}

// Matches compara a userID con todos los que respondieron el cuestionario.
func (s *MatchService) Matches(ctx context.Context, userID string) (domain.MatchReport, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.MatchReport{}, ErrUserNotFound
	}

	gen, cacheOK := int64(0), s.cache != nil
	if cacheOK {
		var err error
		gen, err = s.cache.Generation(ctx)
		if err != nil {
			s.logger.Warn("match cache unavailable", zap.Error(err))
			cacheOK = false
		}
	}
	if cacheOK {
		report, hit, err := s.cache.Get(ctx, gen, userID)
		if err != nil {
			s.logger.Warn("match cache read failed", zap.Error(err), zap.String("user_id", userID))
		} else if hit {
			return report, nil
		}
	}

	record, err := s.subjectAnswers(ctx, userID)
	if err != nil {
		return domain.MatchReport{}, err
	}
	candidates, err := s.answers.ListCandidates(ctx, userID)
	if err != nil {
		return domain.MatchReport{}, fmt.Errorf("list candidates: %w", err)
	}

	others := make([]matching.Candidate, 0, len(candidates))
	for _, c := range candidates {
		others = append(others, matching.Candidate{
			Ranking: matching.Rank(s.table, c.Answers),
			Display: c.Respondent.Display(),
		})
	}

	matches, err := s.engine.ComputeMatches(matching.Rank(s.table, record.Answers), others)
	if err != nil {
		return domain.MatchReport{}, fmt.Errorf("compute matches for %s: %w", userID, err)
	}
	report := domain.MatchReport{Identity: userID, Matches: matches}

	if cacheOK {
		if err := s.cache.Set(ctx, gen, userID, report); err != nil {
			s.logger.Warn("match cache write failed", zap.Error(err), zap.String("user_id", userID))
		}
	}

	s.logger.Info("matches computed",
		zap.String("user_id", userID),
		zap.Int("candidates", len(others)),
		zap.Int("matches", len(matches)),
	)
	return report, nil
}

func (s *MatchService) subjectAnswers(ctx context.Context, userID string) (domain.AnswerRecord, error) {
	record, err := s.answers.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AnswerRecord{}, ErrAnswersNotFound
		}
		return domain.AnswerRecord{}, fmt.Errorf("get answers for %s: %w", userID, err)
	}
	return record, nil
}
