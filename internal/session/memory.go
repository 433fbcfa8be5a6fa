package session

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// MemoryStore lives as long as the process. Sessions never expire on their
// own.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: cache.New(cache.NoExpiration, 0)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := s.cache.Get(key)
	if !ok {
		return "", false, nil
	}
	str, _ := value.(string)
	return str, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.cache.Set(key, value, cache.NoExpiration)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.cache.Delete(key)
	}
	return nil
}
