package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshTokenStore guarda los refresh tokens vigentes de cada respondente,
// indexados por jti, para poder cerrar una sesion o todas a la vez.
type RefreshTokenStore interface {
	Store(ctx context.Context, userID, jti string, ttl time.Duration) error
	Exists(ctx context.Context, userID, jti string) (bool, error)
	Revoke(ctx context.Context, userID, jti string) error
	RevokeAll(ctx context.Context, userID string) error
}

func tokenIDs(userID, jti string) (string, string, bool) {
	userID, jti = strings.TrimSpace(userID), strings.TrimSpace(jti)
	return userID, jti, userID != "" && jti != ""
}

type memoryRefreshTokenStore struct {
	mu     sync.Mutex
	tokens map[string]map[string]time.Time
	now    func() time.Time
}

func NewMemoryRefreshTokenStore() RefreshTokenStore {
	return &memoryRefreshTokenStore{
		tokens: make(map[string]map[string]time.Time),
		now:    time.Now,
	}
}

func (s *memoryRefreshTokenStore) Store(_ context.Context, userID, jti string, ttl time.Duration) error {
	userID, jti, ok := tokenIDs(userID, jti)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	sessions := s.tokens[userID]
	if sessions == nil {
		sessions = make(map[string]time.Time)
		s.tokens[userID] = sessions
	}
	// Aprovecha la escritura para soltar sesiones vencidas del mismo respondente.
	for id, exp := range sessions {
		if now.After(exp) {
			delete(sessions, id)
		}
	}
	sessions[jti] = now.Add(ttl)
	return nil
}

func (s *memoryRefreshTokenStore) Exists(_ context.Context, userID, jti string) (bool, error) {
	userID, jti, ok := tokenIDs(userID, jti)
	if !ok {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.tokens[userID][jti]
	if !ok {
		return false, nil
	}
	if s.now().UTC().After(exp) {
		s.revokeLocked(userID, jti)
		return false, nil
	}
	return true, nil
}

func (s *memoryRefreshTokenStore) Revoke(_ context.Context, userID, jti string) error {
	userID, jti, ok := tokenIDs(userID, jti)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revokeLocked(userID, jti)
	return nil
}

func (s *memoryRefreshTokenStore) revokeLocked(userID, jti string) {
	sessions := s.tokens[userID]
	delete(sessions, jti)
	if len(sessions) == 0 {
		delete(s.tokens, userID)
	}
}

func (s *memoryRefreshTokenStore) RevokeAll(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, strings.TrimSpace(userID))
	return nil
}

type redisTokenClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// redisRefreshTokenStore guarda cada token en auth:refresh:<user>:<jti> y
// mantiene el set auth:refresh:<user> con los jti abiertos del respondente.
type redisRefreshTokenStore struct {
	client redisTokenClient
	prefix string
}

func NewRedisRefreshTokenStore(client *redis.Client) RefreshTokenStore {
	if client == nil {
		return nil
	}
	return &redisRefreshTokenStore{
		client: client,
		prefix: "auth:refresh:",
	}
}

func (s *redisRefreshTokenStore) indexKey(userID string) string {
	return s.prefix + userID
}

func (s *redisRefreshTokenStore) tokenKey(userID, jti string) string {
	return s.prefix + userID + ":" + jti
}

func (s *redisRefreshTokenStore) Store(ctx context.Context, userID, jti string, ttl time.Duration) error {
	userID, jti, ok := tokenIDs(userID, jti)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	if err := s.client.Set(ctx, s.tokenKey(userID, jti), "1", ttl).Err(); err != nil {
		return err
	}
	if err := s.client.SAdd(ctx, s.indexKey(userID), jti).Err(); err != nil {
		return err
	}
	// El indice vive lo mismo que el token mas reciente.
	return s.client.Expire(ctx, s.indexKey(userID), ttl).Err()
}

func (s *redisRefreshTokenStore) Exists(ctx context.Context, userID, jti string) (bool, error) {
	userID, jti, ok := tokenIDs(userID, jti)
	if !ok {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	n, err := s.client.Exists(ctx, s.tokenKey(userID, jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisRefreshTokenStore) Revoke(ctx context.Context, userID, jti string) error {
	userID, jti, ok := tokenIDs(userID, jti)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	if err := s.client.Del(ctx, s.tokenKey(userID, jti)).Err(); err != nil {
		return err
	}
	return s.client.SRem(ctx, s.indexKey(userID), jti).Err()
}

func (s *redisRefreshTokenStore) RevokeAll(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	jtis, err := s.client.SMembers(ctx, s.indexKey(userID)).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(jtis)+1)
	for _, jti := range jtis {
		keys = append(keys, s.tokenKey(userID, jti))
	}
	keys = append(keys, s.indexKey(userID))
	return s.client.Del(ctx, keys...).Err()
}
