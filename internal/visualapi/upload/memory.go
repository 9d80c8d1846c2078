package upload

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// memoryStore — хранилище сессий в памяти процесса. Сессии вытесняются
// по TTL и по ёмкости, поэтому подходит только для одного экземпляра
// сервиса.
type memoryStore struct {
	cache *expirable.LRU[string, Session]
}

// NewMemoryStore создаёт хранилище сессий в памяти.
func NewMemoryStore(capacity int, ttl time.Duration) SessionStore {
	return &memoryStore{
		cache: expirable.NewLRU[string, Session](capacity, nil, ttl),
	}
}

func (m *memoryStore) Get(_ context.Context, id string) (*Session, error) {
	s, ok := m.cache.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	// Копия, чтобы изменения применялись только через Put.
	out := s
	out.Chunks = append([]string(nil), s.Chunks...)
	out.Filled = append([]bool(nil), s.Filled...)
	return &out, nil
}

func (m *memoryStore) Put(_ context.Context, s *Session) error {
	in := *s
	in.Chunks = append([]string(nil), s.Chunks...)
	in.Filled = append([]bool(nil), s.Filled...)
	m.cache.Add(s.ID, in)
	return nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.cache.Remove(id)
	return nil
}
