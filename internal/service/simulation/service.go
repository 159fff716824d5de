// Package simulation keeps the per-simulation conversation state: one
// provider-backed conversation per simulation id, created lazily and held
// in process memory for the life of the process.
package simulation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tapi-ai/simulator/backend/internal/apperrors"
	"github.com/tapi-ai/simulator/backend/internal/model/persona"
	"github.com/tapi-ai/simulator/backend/internal/model/simulation"
)

// Service maps simulation ids to ongoing conversations.
type Service struct {
	personas persona.Store

	mu   sync.RWMutex
	sims map[string]*state
}

type state struct {
	sim   simulation.Simulation
	turns []simulation.Turn
}

// NewService bootstraps the in-memory simulation store.
func NewService(personas persona.Store) *Service {
	return &Service{
		personas: personas,
		sims:     make(map[string]*state),
	}
}

// GetOrCreate returns the simulation for the given id, creating a new one
// bound to the resolved persona when the id is absent or unknown. On a
// resumed simulation the persona argument is ignored: the persona is
// fixed at creation.
func (s *Service) GetOrCreate(ctx context.Context, simulationID, personaKey string) (simulation.Simulation, persona.Persona, error) {
	if simulationID != "" {
		s.mu.RLock()
		existing, ok := s.sims[simulationID]
		s.mu.RUnlock()
		if ok {
			p, err := s.resolvePersona(ctx, existing.sim.PersonaKey)
			if err != nil {
				return simulation.Simulation{}, persona.Persona{}, err
			}
			return existing.sim, p, nil
		}
	}

	p, err := s.resolvePersona(ctx, personaKey)
	if err != nil {
		return simulation.Simulation{}, persona.Persona{}, err
	}

	sim := simulation.Simulation{
		ID:         simulationID,
		PersonaKey: p.Key,
		CreatedAt:  time.Now().UTC(),
	}
	if sim.ID == "" {
		sim.ID = uuid.NewString()
	}

	s.mu.Lock()
	s.sims[sim.ID] = &state{sim: sim, turns: make([]simulation.Turn, 0, 16)}
	s.mu.Unlock()

	return sim, p, nil
}

// AppendExchange records one leader/member exchange on the simulation.
func (s *Service) AppendExchange(_ context.Context, simulationID, userText, assistantText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sims[simulationID]
	if !ok {
		return fmt.Errorf("%w: unknown simulation %s", apperrors.ErrNotFound, simulationID)
	}

	now := time.Now().UTC()
	st.turns = append(st.turns,
		simulation.Turn{Role: "user", Content: userText, CreatedAt: now},
		simulation.Turn{Role: "assistant", Content: assistantText, CreatedAt: now},
	)
	return nil
}

// History returns a copy of the turns exchanged so far.
func (s *Service) History(_ context.Context, simulationID string) ([]simulation.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sims[simulationID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown simulation %s", apperrors.ErrNotFound, simulationID)
	}

	copied := make([]simulation.Turn, len(st.turns))
	copy(copied, st.turns)
	return copied, nil
}

// resolvePersona falls back to the default key for unknown or missing
// personas instead of failing.
func (s *Service) resolvePersona(ctx context.Context, key string) (persona.Persona, error) {
	if key != "" {
		if p, err := s.personas.FindByKey(ctx, key); err == nil {
			return p, nil
		}
	}
	return s.personas.FindByKey(ctx, persona.DefaultKey)
}
