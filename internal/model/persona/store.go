package persona

import (
	"context"
	"sync"

	"github.com/tapi-ai/simulator/backend/internal/apperrors"
)

// Patch carries a partial persona update. Nil fields are left untouched.
type Patch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// Store exposes persona retrieval and administration.
type Store interface {
	List(ctx context.Context) ([]Persona, error)
	FindByKey(ctx context.Context, key string) (Persona, error)
	Update(ctx context.Context, key string, patch Patch) (Persona, error)
}

// MemoryStore implements Store with an in-memory slice. Seed order is
// preserved for listing.
type MemoryStore struct {
	mu    sync.RWMutex
	items []Persona
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied personas.
func NewMemoryStore(items []Persona) *MemoryStore {
	return &MemoryStore{items: append([]Persona(nil), items...)}
}

// List returns all personas, active or not.
func (s *MemoryStore) List(_ context.Context) ([]Persona, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Persona(nil), s.items...), nil
}

// FindByKey looks up a persona by its key.
func (s *MemoryStore) FindByKey(_ context.Context, key string) (Persona, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.Key == key {
			return item, nil
		}
	}
	return Persona{}, apperrors.ErrNotFound
}

// Update applies the non-nil patch fields to the stored persona.
func (s *MemoryStore) Update(_ context.Context, key string, patch Patch) (Persona, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Key != key {
			continue
		}
		if patch.Name != nil {
			s.items[i].Name = *patch.Name
		}
		if patch.Description != nil {
			s.items[i].Description = *patch.Description
		}
		if patch.IsActive != nil {
			s.items[i].IsActive = *patch.IsActive
		}
		return s.items[i], nil
	}
	return Persona{}, apperrors.ErrNotFound
}
