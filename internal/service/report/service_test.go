package report

import (
	"context"
	"errors"
	"testing"

	"github.com/tapi-ai/simulator/backend/internal/apperrors"
	"github.com/tapi-ai/simulator/backend/internal/model/registry"
)

type stubCompleter struct {
	response string
	err      error
}

func (c *stubCompleter) Complete(_ context.Context, _ string) (string, error) {
	return c.response, c.err
}

func testRequest() Request {
	return Request{
		CompanyID:    "acme",
		CampaignCode: "2026-1h",
		SimulationID: "sim-1",
		Topic:        Topic{ID: "schedule", Label: "일정 조율"},
		Persona:      PersonaRef{ID: "quiet", Name: "조용한 팀원"},
		Situation:    Situation{ID: "delay", Title: "일정 지연 상황"},
		ChatHistory: []TranscriptEntry{
			{Role: "leader", Text: "일정 조정이 필요해 보여요."},
			{Role: "member", Text: "네, 말씀드리고 싶었습니다."},
		},
	}
}

func TestGenerateAppendsConversationLog(t *testing.T) {
	logs := registry.NewMemoryStore()
	svc := NewService(&stubCompleter{response: `{"summary":"요약","strengths":["경청"],"improvements":["준비"],"coachNote":"조언"}`}, logs)

	rep, err := svc.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if rep.Summary != "요약" {
		t.Fatalf("unexpected summary: %q", rep.Summary)
	}

	entries, err := logs.ListLogs(context.Background())
	if err != nil {
		t.Fatalf("list logs failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}

	entry := entries[0]
	if entry.ID == "" {
		t.Fatal("expected generated log id")
	}
	if entry.CompanyID != "acme" || entry.CampaignCode != "2026-1h" || entry.SimulationID != "sim-1" {
		t.Fatalf("unexpected log scope: %+v", entry)
	}
	if entry.LastUserMessage != "일정 조정이 필요해 보여요." {
		t.Fatalf("unexpected last user message: %q", entry.LastUserMessage)
	}
	if entry.LastCoachReply != "네, 말씀드리고 싶었습니다." {
		t.Fatalf("unexpected last coach reply: %q", entry.LastCoachReply)
	}
}

func TestGenerateExplicitLastMessagesWin(t *testing.T) {
	logs := registry.NewMemoryStore()
	svc := NewService(&stubCompleter{response: "1) 요약\n2) • a\n3) • b\n4) c"}, logs)

	req := testRequest()
	req.LastUserMessage = "명시된 마지막 발화"
	req.LastCoachReply = "명시된 마지막 답변"

	if _, err := svc.Generate(context.Background(), req); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	entries, _ := logs.ListLogs(context.Background())
	if entries[0].LastUserMessage != "명시된 마지막 발화" || entries[0].LastCoachReply != "명시된 마지막 답변" {
		t.Fatalf("expected explicit fields kept, got %+v", entries[0])
	}
}

func TestGenerateProviderFailure(t *testing.T) {
	logs := registry.NewMemoryStore()
	svc := NewService(&stubCompleter{err: errors.New("upstream unavailable")}, logs)

	_, err := svc.Generate(context.Background(), testRequest())
	if !errors.Is(err, apperrors.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}

	entries, _ := logs.ListLogs(context.Background())
	if len(entries) != 0 {
		t.Fatalf("expected no log entry on failure, got %d", len(entries))
	}
}
