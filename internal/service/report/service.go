// Package report turns a finished simulation transcript into the
// four-part coaching report and appends one conversation-log record per
// generated report.
package report

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/tapi-ai/simulator/backend/internal/apperrors"
	"github.com/tapi-ai/simulator/backend/internal/metrics"
	"github.com/tapi-ai/simulator/backend/internal/model/registry"
)

// Completer is the one-shot slice of the AI service the report generator
// needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service generates coaching reports.
type Service struct {
	llm  Completer
	logs registry.LogStore
	now  func() time.Time
}

// NewService wires the report generator.
func NewService(llm Completer, logs registry.LogStore) *Service {
	return &Service{llm: llm, logs: logs, now: time.Now}
}

// Generate builds the report prompt, asks the provider, parses the
// response, and appends the log record. Provider failures surface as
// errors: there is no fallback report template.
func (s *Service) Generate(ctx context.Context, req Request) (Report, error) {
	raw, err := s.llm.Complete(ctx, buildPrompt(req))
	if err != nil {
		metrics.Global().ProviderFailures.Inc()
		return Report{}, fmt.Errorf("%w: %v", apperrors.ErrProvider, err)
	}

	rep := parseResponse(raw)
	metrics.Global().ReportsGenerated.Inc()

	entry := registry.ConversationLog{
		ID:              uuid.NewString(),
		CompanyID:       req.CompanyID,
		CampaignCode:    req.CampaignCode,
		SimulationID:    req.SimulationID,
		Persona:         req.Persona.ID,
		Topic:           req.Topic.Label,
		Situation:       req.Situation.Title,
		LastUserMessage: lastByRole(req, "leader", req.LastUserMessage),
		LastCoachReply:  lastByRole(req, "member", req.LastCoachReply),
		CreatedAt:       s.now().UTC(),
	}
	if err := s.logs.AppendLog(ctx, entry); err != nil {
		// The report itself succeeded; losing the log line is not worth a 500.
		log.Printf("[report] failed to append conversation log: %v", err)
	}

	return rep, nil
}

// lastByRole prefers the explicit value and otherwise walks the transcript
// backwards for the most recent line of that role.
func lastByRole(req Request, role, explicit string) string {
	if explicit != "" {
		return explicit
	}
	for i := len(req.ChatHistory) - 1; i >= 0; i-- {
		if req.ChatHistory[i].Role == role {
			return req.ChatHistory[i].Text
		}
	}
	return ""
}
