package summary

import (
	"context"
	"sync"

	"github.com/LavaJover/shvark-country-service/internal/domain"
)

type MemoryStore struct {
	mu    sync.RWMutex
	image []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(ctx context.Context, image []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.image = append([]byte(nil), image...)
	return nil
}

func (s *MemoryStore) Load(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.image == nil {
		return nil, domain.ErrSummaryNotFound
	}
	return append([]byte(nil), s.image...), nil
}
