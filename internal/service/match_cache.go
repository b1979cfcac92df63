package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"persona-match/internal/domain"
)

// MatchCache guarda reportes de matches por generacion. Invalidate abre una
// generacion nueva, de modo que los reportes anteriores dejan de leerse.
type MatchCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64, userID string) (domain.MatchReport, bool, error)
	Set(ctx context.Context, gen int64, userID string, report domain.MatchReport) error
	Invalidate(ctx context.Context) error
}

type cachedReport struct {
	report    domain.MatchReport
	expiresAt time.Time
}

type memoryMatchCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	gen   int64
	items map[string]cachedReport
}

func NewMemoryMatchCache(ttl time.Duration) MatchCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &memoryMatchCache{
		ttl:   ttl,
		items: make(map[string]cachedReport),
	}
}

func reportKey(gen int64, userID string) string {
	return strconv.FormatInt(gen, 10) + ":" + userID
}

func (c *memoryMatchCache) Generation(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *memoryMatchCache) Get(_ context.Context, gen int64, userID string) (domain.MatchReport, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := reportKey(gen, userID)
	item, ok := c.items[key]
	if !ok {
		return domain.MatchReport{}, false, nil
	}
	if time.Now().UTC().After(item.expiresAt) {
		delete(c.items, key)
		return domain.MatchReport{}, false, nil
	}
	return item.report, true, nil
}

func (c *memoryMatchCache) Set(_ context.Context, gen int64, userID string, report domain.MatchReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil
	}
	c.items[reportKey(gen, userID)] = cachedReport{
		report:    report,
		expiresAt: time.Now().UTC().Add(c.ttl),
	}
	return nil
}

func (c *memoryMatchCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.items = make(map[string]cachedReport)
	return nil
}
