package store

import (
	"context"
	"sync"

	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/errors"
)

// MemoryStore keeps encoded documents in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	pages map[string][]byte
}

// NewMemoryStore returns an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pages: make(map[string][]byte)}
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context, key string) (*document.Document, error) {
	if err := errors.ValidatePageKey(key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	data, ok := s.pages[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return decode(BackendMemory, key, data)
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, key string, doc *document.Document) error {
	if err := errors.ValidatePageKey(key); err != nil {
		return err
	}
	data, err := encode(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.pages[key] = data
	s.mu.Unlock()
	return nil
}

// Put stores raw bytes under key without validation, for seeding tests.
func (s *MemoryStore) Put(key string, data []byte) {
	s.mu.Lock()
	s.pages[key] = data
	s.mu.Unlock()
}

// Len returns the number of stored pages.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
