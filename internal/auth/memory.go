package auth

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemorySessions keeps sessions in process memory. Sessions are lost on
// restart and are not shared between instances; use the Redis store for
// that.
type MemorySessions struct {
	c *cache.Cache
}

// NewMemorySessions creates a store whose expired entries are purged every
// cleanup interval.
func NewMemorySessions(cleanup time.Duration) *MemorySessions {
	return &MemorySessions{c: cache.New(DefaultSessionTTL, cleanup)}
}

func (m *MemorySessions) Save(_ context.Context, token string, ttl time.Duration) error {
	m.c.Set(token, struct{}{}, ttl)
	return nil
}

func (m *MemorySessions) Exists(_ context.Context, token string) (bool, error) {
	_, ok := m.c.Get(token)
	return ok, nil
}

func (m *MemorySessions) Delete(_ context.Context, token string) error {
	m.c.Delete(token)
	return nil
}
