package access

import (
	"context"
	"strings"
	"sync"

	"github.com/tapi-ai/simulator/backend/internal/apperrors"
)

// CodeStore holds the registry of issued access codes.
type CodeStore interface {
	InsertCode(ctx context.Context, code Code) error
	ListCodes(ctx context.Context) ([]Code, error)
	// FindMatch returns the active code matching the triple exactly.
	FindMatch(ctx context.Context, companyID, campaignCode, accessCode string) (Code, error)
	DeactivateCode(ctx context.Context, id string) (Code, error)
}

// SessionStore holds minted access sessions keyed by token.
type SessionStore interface {
	PutSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, token string) (Session, error)
}

// MemoryCodeStore implements CodeStore with a mutex-guarded slice.
type MemoryCodeStore struct {
	mu    sync.RWMutex
	codes []Code
}

// NewMemoryCodeStore returns a MemoryCodeStore preloaded with seed codes.
func NewMemoryCodeStore(seed []Code) *MemoryCodeStore {
	return &MemoryCodeStore{codes: append([]Code(nil), seed...)}
}

func (s *MemoryCodeStore) InsertCode(_ context.Context, code Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = append(s.codes, code)
	return nil
}

func (s *MemoryCodeStore) ListCodes(_ context.Context) ([]Code, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Code(nil), s.codes...), nil
}

func (s *MemoryCodeStore) FindMatch(_ context.Context, companyID, campaignCode, accessCode string) (Code, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.codes {
		if c.IsActive &&
			c.CompanyID == strings.TrimSpace(companyID) &&
			c.CampaignCode == strings.TrimSpace(campaignCode) &&
			c.AccessCode == strings.TrimSpace(accessCode) {
			return c, nil
		}
	}
	return Code{}, apperrors.ErrNotFound
}

func (s *MemoryCodeStore) DeactivateCode(_ context.Context, id string) (Code, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.codes {
		if s.codes[i].ID == id {
			s.codes[i].IsActive = false
			return s.codes[i], nil
		}
	}
	return Code{}, apperrors.ErrNotFound
}

// MemorySessionStore implements SessionStore with a mutex-guarded map.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemorySessionStore returns an empty MemorySessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]Session)}
}

func (s *MemorySessionStore) PutSession(_ context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

func (s *MemorySessionStore) GetSession(_ context.Context, token string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok {
		return Session{}, apperrors.ErrNotFound
	}
	return session, nil
}
