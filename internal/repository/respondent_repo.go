package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"persona-match/internal/domain"
)

// RespondentRepository define el contrato de persistencia para respondentes.
type RespondentRepository interface {
	Create(ctx context.Context, r domain.Respondent) error
	GetByID(ctx context.Context, id string) (domain.Respondent, error)
	GetByEmail(ctx context.Context, email string) (domain.Respondent, error)
}

// PgRespondentRepository implementa RespondentRepository usando pgxpool.
type PgRespondentRepository struct {
	pool *pgxpool.Pool
}

func NewPgRespondentRepository(pool *pgxpool.Pool) *PgRespondentRepository {
	return &PgRespondentRepository{pool: pool}
}

func (r *PgRespondentRepository) Create(ctx context.Context, resp domain.Respondent) error {
	const query = `
		INSERT INTO respondents (id, email, password_hash, name, contact, origin, cohort, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		resp.ID,
		resp.Email,
		resp.PasswordHash,
		resp.Name,
		resp.Contact,
		resp.Origin,
		resp.Cohort,
		resp.CreatedAt,
	)
	return err
}

const selectRespondent = `
	SELECT id, email, password_hash, name, contact, origin, cohort, created_at
	FROM respondents
`

func (r *PgRespondentRepository) GetByID(ctx context.Context, id string) (domain.Respondent, error) {
	return r.getOne(ctx, selectRespondent+`WHERE id = $1`, id)
}

func (r *PgRespondentRepository) GetByEmail(ctx context.Context, email string) (domain.Respondent, error) {
	return r.getOne(ctx, selectRespondent+`WHERE email = $1`, email)
}

func (r *PgRespondentRepository) getOne(ctx context.Context, query string, arg string) (domain.Respondent, error) {
	var resp domain.Respondent
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&resp.ID,
		&resp.Email,
		&resp.PasswordHash,
		&resp.Name,
		&resp.Contact,
		&resp.Origin,
		&resp.Cohort,
		&resp.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Respondent{}, err
	}
	return resp, err
}
