package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"persona-match/internal/domain"
	"persona-match/internal/repository"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password too short")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("rate limited")
)

const (
	minPasswordLen   = 8
	loginWindow      = 15 * time.Minute
	maxLoginAttempts = 5
)

// RespondentService coordina alta y autenticacion de respondentes.
type RespondentService struct {
	logger      *zap.Logger
	respondents repository.RespondentRepository
	limiter     LoginRateLimiter
}

func NewRespondentService(logger *zap.Logger, respondents repository.RespondentRepository, limiter LoginRateLimiter) *RespondentService {
	if limiter == nil {
		limiter = NewMemoryLoginRateLimiter(loginWindow, maxLoginAttempts)
	}
	return &RespondentService{
		logger:      logger,
		respondents: respondents,
		limiter:     limiter,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Contact  string
	Origin   string
	Cohort   string
}

func (s *RespondentService) Register(ctx context.Context, input RegisterInput) (domain.Respondent, error) {
	email := normalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Respondent{}, ErrInvalidEmail
	}
	password := strings.TrimSpace(input.Password)
	if len(password) < minPasswordLen {
		return domain.Respondent{}, ErrWeakPassword
	}

	if _, err := s.respondents.GetByEmail(ctx, email); err == nil {
		return domain.Respondent{}, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Respondent{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Respondent{}, err
	}

	resp := domain.Respondent{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(input.Name),
		Contact:      strings.TrimSpace(input.Contact),
		Origin:       strings.TrimSpace(input.Origin),
		Cohort:       strings.TrimSpace(input.Cohort),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.respondents.Create(ctx, resp); err != nil {
		return domain.Respondent{}, err
	}

	s.logger.Info("respondent registered", zap.String("user_id", resp.ID))
	return resp, nil
}

func (s *RespondentService) Authenticate(ctx context.Context, emailAddr, password string) (domain.Respondent, error) {
	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" || password == "" {
		return domain.Respondent{}, ErrInvalidCredentials
	}
	if !s.limiter.Allow(ctx, emailAddr) {
		s.logger.Warn("login rate limited", zap.String("email", emailAddr))
		return domain.Respondent{}, ErrRateLimited
	}
	resp, err := s.respondents.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Respondent{}, ErrInvalidCredentials
		}
		return domain.Respondent{}, err
	}
	if resp.PasswordHash == "" {
		return domain.Respondent{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(resp.PasswordHash), []byte(password)); err != nil {
		return domain.Respondent{}, ErrInvalidCredentials
	}
	return resp, nil
}

func (s *RespondentService) Get(ctx context.Context, id string) (domain.Respondent, error) {
	resp, err := s.respondents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Respondent{}, ErrUserNotFound
		}
		return domain.Respondent{}, err
	}
	return resp, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
