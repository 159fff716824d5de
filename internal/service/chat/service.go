// Package chat orchestrates one simulation turn: validate the leader's
// message, resolve the simulation, call the provider, and apply the
// configured fallback policy when the provider fails.
package chat

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/tapi-ai/simulator/backend/internal/apperrors"
	"github.com/tapi-ai/simulator/backend/internal/config"
	"github.com/tapi-ai/simulator/backend/internal/metrics"
	"github.com/tapi-ai/simulator/backend/internal/model/persona"
	simmodel "github.com/tapi-ai/simulator/backend/internal/model/simulation"
	"github.com/tapi-ai/simulator/backend/internal/service/ai"
	"github.com/tapi-ai/simulator/backend/internal/service/simulation"
)

// Generator is the slice of the AI service the synchronous chat path
// needs. Kept narrow so tests can stub the provider.
type Generator interface {
	Generate(ctx context.Context, systemPrompt string, history []simmodel.Turn, query string) (string, error)
}

// Result is one completed chat turn.
type Result struct {
	SimulationID string `json:"simulation_id"`
	Reply        string `json:"reply"`
	Persona      string `json:"persona"`
	Mock         bool   `json:"mock"`
}

// Prepared carries everything needed to run a turn against the provider.
type Prepared struct {
	Simulation   simmodel.Simulation
	Persona      persona.Persona
	SystemPrompt string
	Query        string
	Message      string
	History      []simmodel.Turn
}

// Service executes chat turns.
type Service struct {
	sims           *simulation.Service
	generator      Generator
	fallbackPolicy string
}

// NewService wires the chat orchestrator. fallbackPolicy is one of
// config.FallbackMock or config.FallbackError.
func NewService(sims *simulation.Service, generator Generator, fallbackPolicy string) *Service {
	return &Service{
		sims:           sims,
		generator:      generator,
		fallbackPolicy: fallbackPolicy,
	}
}

// Prepare validates the message and resolves the simulation without
// touching the provider. An empty message fails before any session state
// is created or mutated.
func (s *Service) Prepare(ctx context.Context, message, personaKey, simulationID string) (Prepared, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return Prepared{}, fmt.Errorf("%w: message must not be empty", apperrors.ErrBadRequest)
	}

	sim, p, err := s.sims.GetOrCreate(ctx, simulationID, personaKey)
	if err != nil {
		return Prepared{}, err
	}

	history, err := s.sims.History(ctx, sim.ID)
	if err != nil {
		return Prepared{}, err
	}

	return Prepared{
		Simulation:   sim,
		Persona:      p,
		SystemPrompt: ai.SystemPrompt(p.SystemPrompt),
		Query:        ai.WrapMessage(trimmed),
		Message:      trimmed,
		History:      history,
	}, nil
}

// Chat runs one synchronous turn.
func (s *Service) Chat(ctx context.Context, message, personaKey, simulationID string) (Result, error) {
	prepared, err := s.Prepare(ctx, message, personaKey, simulationID)
	if err != nil {
		return Result{}, err
	}
	metrics.Global().ChatRequests.Inc()

	mock := false
	reply, err := s.generator.Generate(ctx, prepared.SystemPrompt, prepared.History, prepared.Query)
	if err != nil {
		metrics.Global().ProviderFailures.Inc()
		if s.fallbackPolicy == config.FallbackError {
			return Result{}, fmt.Errorf("%w: %v", apperrors.ErrProvider, err)
		}
		log.Printf("[chat] provider error, serving mock reply: %v", err)
		reply = ai.MockReply(prepared.Message, prepared.Persona.Key)
		mock = true
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = ai.EmptyReplyFallback
		mock = true
	}
	if mock {
		metrics.Global().MockFallbacks.Inc()
	}

	if err := s.Finish(ctx, prepared.Simulation.ID, prepared.Message, reply); err != nil {
		return Result{}, err
	}

	return Result{
		SimulationID: prepared.Simulation.ID,
		Reply:        reply,
		Persona:      prepared.Persona.Key,
		Mock:         mock,
	}, nil
}

// Finish records the exchange on the simulation.
func (s *Service) Finish(ctx context.Context, simulationID, message, reply string) error {
	return s.sims.AppendExchange(ctx, simulationID, message, reply)
}

// Fallback returns the deterministic mock reply for the persona.
func (s *Service) Fallback(message, personaKey string) string {
	return ai.MockReply(message, personaKey)
}

// FallbackOnError reports whether provider failures should degrade to the
// mock reply rather than surface as errors.
func (s *Service) FallbackOnError() bool {
	return s.fallbackPolicy != config.FallbackError
}
