package cache

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
)

// MemoryStorage is a process-local Storage.
type MemoryStorage struct {
	entries *xsync.MapOf[Entry, []byte]
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: xsync.NewMapOf[Entry, []byte]()}
}

func (s *MemoryStorage) Has(_ context.Context, key string, kind Kind) (bool, error) {
	_, ok := s.entries.Load(Entry{Key: key, Kind: kind})
	return ok, nil
}

func (s *MemoryStorage) Read(_ context.Context, key string, kind Kind) ([]byte, error) {
	data, ok := s.entries.Load(Entry{Key: key, Kind: kind})
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStorage) Write(_ context.Context, key string, kind Kind, data []byte) error {
	s.entries.Store(Entry{Key: key, Kind: kind}, append([]byte(nil), data...))
	return nil
}

// Len returns the number of stored entries.
func (s *MemoryStorage) Len() int {
	return s.entries.Size()
}
