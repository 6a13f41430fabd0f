package session

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore guarda sessões em processo, com expiração automática.
// Suficiente para dev e instância única; em produção use o RedisStore.
type MemoryStore struct{ c *gocache.Cache }

// NewMemory cria o store em memória. defaultTTL vale quando Save recebe ttl 0.
func NewMemory(defaultTTL time.Duration) *MemoryStore {
	return &MemoryStore{c: gocache.New(defaultTTL, 10*time.Minute)}
}

func (m *MemoryStore) Save(_ context.Context, sid string, data Data, ttl time.Duration) error {
	m.c.Set(sid, data, ttl)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, sid string) (*Data, error) {
	v, ok := m.c.Get(sid)
	if !ok {
		return nil, ErrNotFound
	}
	d, ok := v.(Data)
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (m *MemoryStore) Delete(_ context.Context, sid string) error {
	m.c.Delete(sid)
	return nil
}
