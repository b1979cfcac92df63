package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"persona-match/internal/domain"
)

type AnswerRepository interface {
	Upsert(ctx context.Context, record domain.AnswerRecord) error
	Get(ctx context.Context, userID string) (domain.AnswerRecord, error)
	// ListCandidates devuelve a todos los que respondieron excepto userID, en orden estable.
	ListCandidates(ctx context.Context, userID string) ([]domain.Candidate, error)
}

type PgAnswerRepository struct {
	pool *pgxpool.Pool
}

func NewPgAnswerRepository(pool *pgxpool.Pool) *PgAnswerRepository {
	return &PgAnswerRepository{pool: pool}
}

func (r *PgAnswerRepository) Upsert(ctx context.Context, record domain.AnswerRecord) error {
	const query = `
		INSERT INTO answers (user_id, answers, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET
			answers = EXCLUDED.answers,
			updated_at = EXCLUDED.updated_at
	`
	payload, err := json.Marshal(record.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	_, err = r.pool.Exec(ctx, query, record.UserID, payload, record.UpdatedAt)
	return err
}

func (r *PgAnswerRepository) Get(ctx context.Context, userID string) (domain.AnswerRecord, error) {
	const query = `
		SELECT user_id, answers, updated_at
		FROM answers
		WHERE user_id = $1
	`
	var (
		record  domain.AnswerRecord
		payload []byte
	)
	err := r.pool.QueryRow(ctx, query, userID).Scan(&record.UserID, &payload, &record.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AnswerRecord{}, err
	}
	if err != nil {
		return domain.AnswerRecord{}, err
	}
	if err := json.Unmarshal(payload, &record.Answers); err != nil {
		return domain.AnswerRecord{}, fmt.Errorf("decode answers for %s: %w", userID, err)
	}
	return record, nil
}

func (r *PgAnswerRepository) ListCandidates(ctx context.Context, userID string) ([]domain.Candidate, error) {
	const query = `
		SELECT r.id, r.email, r.name, r.contact, r.origin, r.cohort, r.created_at, a.answers
		FROM answers a
		JOIN respondents r ON r.id = a.user_id
		WHERE a.user_id <> $1
		ORDER BY r.created_at, r.id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []domain.Candidate
	for rows.Next() {
		var (
			c       domain.Candidate
			payload []byte
		)
		if err := rows.Scan(
			&c.Respondent.ID,
			&c.Respondent.Email,
			&c.Respondent.Name,
			&c.Respondent.Contact,
			&c.Respondent.Origin,
			&c.Respondent.Cohort,
			&c.Respondent.CreatedAt,
			&payload,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &c.Answers); err != nil {
			return nil, fmt.Errorf("decode answers for %s: %w", c.Respondent.ID, err)
		}
		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return candidates, nil
}
