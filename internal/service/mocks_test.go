package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"persona-match/internal/domain"
)

type mockRespondentRepo struct {
	byID    map[string]domain.Respondent
	byEmail map[string]string
}

func newMockRespondentRepo() *mockRespondentRepo {
	return &mockRespondentRepo{
		byID:    make(map[string]domain.Respondent),
		byEmail: make(map[string]string),
	}
}

func (m *mockRespondentRepo) Create(_ context.Context, r domain.Respondent) error {
	m.byID[r.ID] = r
	m.byEmail[r.Email] = r.ID
	return nil
}

func (m *mockRespondentRepo) GetByID(_ context.Context, id string) (domain.Respondent, error) {
	r, ok := m.byID[id]
	if !ok {
		return domain.Respondent{}, pgx.ErrNoRows
	}
	return r, nil
}

func (m *mockRespondentRepo) GetByEmail(ctx context.Context, email string) (domain.Respondent, error) {
	id, ok := m.byEmail[email]
	if !ok {
		return domain.Respondent{}, pgx.ErrNoRows
	}
	return m.GetByID(ctx, id)
}

type mockAnswerRepo struct {
	mu          sync.Mutex
	records     map[string]domain.AnswerRecord
	respondents []domain.Respondent
	upsertErr   error
	listCalls   int
}

func newMockAnswerRepo(respondents ...domain.Respondent) *mockAnswerRepo {
	return &mockAnswerRepo{
		records:     make(map[string]domain.AnswerRecord),
		respondents: respondents,
	}
}

func (m *mockAnswerRepo) Upsert(_ context.Context, record domain.AnswerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.records[record.UserID] = record
	return nil
}

func (m *mockAnswerRepo) Get(_ context.Context, userID string) (domain.AnswerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[userID]
	if !ok {
		return domain.AnswerRecord{}, pgx.ErrNoRows
	}
	return record, nil
}

// ListCandidates respeta el orden en que se registraron los respondentes.
func (m *mockAnswerRepo) ListCandidates(_ context.Context, userID string) ([]domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	var out []domain.Candidate
	for _, r := range m.respondents {
		record, ok := m.records[r.ID]
		if !ok || r.ID == userID {
			continue
		}
		out = append(out, domain.Candidate{Respondent: r, Answers: record.Answers})
	}
	return out, nil
}

type failingMatchCache struct{}

func (failingMatchCache) Generation(context.Context) (int64, error) {
	return 0, errors.New("cache down")
}

func (failingMatchCache) Get(context.Context, int64, string) (domain.MatchReport, bool, error) {
	return domain.MatchReport{}, false, errors.New("cache down")
}

func (failingMatchCache) Set(context.Context, int64, string, domain.MatchReport) error {
	return errors.New("cache down")
}

func (failingMatchCache) Invalidate(context.Context) error {
	return errors.New("cache down")
}

// mockRedis implementa los subconjuntos de *redis.Client usados por los stores.
type mockRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
	sets   map[string]map[string]struct{}

	evalResult int64
	evalErr    error
	lastEval   []string
	lastArgs   []interface{}

	err error
}

func newMockRedis() *mockRedis {
	return &mockRedis{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
		sets:   make(map[string]map[string]struct{}),
	}
}

func (m *mockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	v, ok := m.values[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (m *mockRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	switch v := value.(type) {
	case []byte:
		m.values[key] = string(v)
	case string:
		m.values[key] = v
	}
	m.ttls[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func (m *mockRedis) Incr(ctx context.Context, key string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	n, _ := strconv.ParseInt(m.values[key], 10, 64)
	n++
	m.values[key] = strconv.FormatInt(n, 10)
	cmd.SetVal(n)
	return cmd
}

func (m *mockRedis) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	var n int64
	for _, k := range keys {
		if _, ok := m.values[k]; ok {
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func (m *mockRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	for _, k := range keys {
		delete(m.values, k)
		delete(m.sets, k)
	}
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func (m *mockRedis) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastEval = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.evalErr != nil {
		cmd.SetErr(m.evalErr)
		return cmd
	}
	cmd.SetVal(m.evalResult)
	return cmd
}

func (m *mockRedis) SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	set := m.sets[key]
	if set == nil {
		set = make(map[string]struct{})
		m.sets[key] = set
	}
	for _, member := range members {
		set[member.(string)] = struct{}{}
	}
	cmd.SetVal(int64(len(members)))
	return cmd
}

func (m *mockRedis) SRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	for _, member := range members {
		delete(m.sets[key], member.(string))
	}
	cmd.SetVal(int64(len(members)))
	return cmd
}

func (m *mockRedis) SMembers(ctx context.Context, key string) *redis.StringSliceCmd {
	cmd := redis.NewStringSliceCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	var out []string
	for member := range m.sets[key] {
		out = append(out, member)
	}
	cmd.SetVal(out)
	return cmd
}

func (m *mockRedis) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	m.ttls[key] = expiration
	cmd.SetVal(true)
	return cmd
}
