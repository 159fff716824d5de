package registry

import (
	"context"
	"sync"

	"github.com/tapi-ai/simulator/backend/internal/apperrors"
)

// CompanyStore holds the company registry.
type CompanyStore interface {
	InsertCompany(ctx context.Context, company Company) error
	ListCompanies(ctx context.Context) ([]Company, error)
	FindCompany(ctx context.Context, id string) (Company, error)
	UpdateCompany(ctx context.Context, id string, patch CompanyPatch) (Company, error)
}

// DiagnosticStore holds the diagnostic/campaign registry.
type DiagnosticStore interface {
	InsertDiagnostic(ctx context.Context, diagnostic Diagnostic) error
	ListDiagnostics(ctx context.Context) ([]Diagnostic, error)
	UpdateDiagnostic(ctx context.Context, id string, patch DiagnosticPatch) (Diagnostic, error)
}

// LogStore appends and lists conversation logs. Records are never updated.
type LogStore interface {
	AppendLog(ctx context.Context, entry ConversationLog) error
	ListLogs(ctx context.Context) ([]ConversationLog, error)
}

// MemoryStore implements the three registry stores with mutex-guarded
// slices, insertion order preserved.
type MemoryStore struct {
	mu          sync.RWMutex
	companies   []Company
	diagnostics []Diagnostic
	logs        []ConversationLog
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) InsertCompany(_ context.Context, company Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.companies {
		if c.ID == company.ID {
			return apperrors.ErrConflict
		}
	}
	s.companies = append(s.companies, company)
	return nil
}

func (s *MemoryStore) ListCompanies(_ context.Context) ([]Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Company(nil), s.companies...), nil
}

func (s *MemoryStore) FindCompany(_ context.Context, id string) (Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.companies {
		if c.ID == id {
			return c, nil
		}
	}
	return Company{}, apperrors.ErrNotFound
}

func (s *MemoryStore) UpdateCompany(_ context.Context, id string, patch CompanyPatch) (Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.companies {
		if s.companies[i].ID != id {
			continue
		}
		if patch.Name != nil {
			s.companies[i].Name = *patch.Name
		}
		if patch.Description != nil {
			s.companies[i].Description = *patch.Description
		}
		if patch.IsActive != nil {
			s.companies[i].IsActive = *patch.IsActive
		}
		return s.companies[i], nil
	}
	return Company{}, apperrors.ErrNotFound
}

func (s *MemoryStore) InsertDiagnostic(_ context.Context, diagnostic Diagnostic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagnostics = append(s.diagnostics, diagnostic)
	return nil
}

func (s *MemoryStore) ListDiagnostics(_ context.Context) ([]Diagnostic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Diagnostic(nil), s.diagnostics...), nil
}

func (s *MemoryStore) UpdateDiagnostic(_ context.Context, id string, patch DiagnosticPatch) (Diagnostic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.diagnostics {
		if s.diagnostics[i].ID != id {
			continue
		}
		if patch.Name != nil {
			s.diagnostics[i].Name = *patch.Name
		}
		if patch.Description != nil {
			s.diagnostics[i].Description = *patch.Description
		}
		if patch.IsActive != nil {
			s.diagnostics[i].IsActive = *patch.IsActive
		}
		return s.diagnostics[i], nil
	}
	return Diagnostic{}, apperrors.ErrNotFound
}

func (s *MemoryStore) AppendLog(_ context.Context, entry ConversationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	return nil
}

func (s *MemoryStore) ListLogs(_ context.Context) ([]ConversationLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ConversationLog(nil), s.logs...), nil
}
