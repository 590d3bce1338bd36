// Package memory provides in-process backing stores for tests and for
// throwaway runs of the server.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/msomdec/campus-market/internal/domain"
)

// Store is an in-memory domain.KeyValueStore and domain.FileStore.
// Values are copied on the way in and out so callers cannot alias them.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var (
	_ domain.KeyValueStore = (*Store)(nil)
	_ domain.FileStore     = (*Store)(nil)
)

func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(v), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = slices.Clone(value)
	return nil
}

// Save is Set under the FileStore name.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	return s.Set(ctx, key, data)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.data))
}
