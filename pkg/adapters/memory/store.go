package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/sinew/pkg/domain"
)

// Store implements ports.CurveStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.CurveDocument
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.CurveDocument),
	}
}

// Save keeps a deep copy of doc under name.
func (s *Store) Save(ctx context.Context, name string, doc domain.CurveDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = doc.Clone()
	return nil
}

// Load returns a copy so callers cannot mutate the stored document.
func (s *Store) Load(ctx context.Context, name string) (domain.CurveDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[name]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return doc.Clone(), nil
}

// Delete removes a document. Unknown names are not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns stored document names in order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
